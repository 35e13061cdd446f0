// Package health assembles live stock snapshots and classifies holding
// health with the alert rules in the signals package.
package health

import (
	"context"
	"time"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
	"github.com/bi-al1/stock-dashboard/internal/signals"
	"github.com/bi-al1/stock-dashboard/internal/storage"
)

// historyLookback bounds the price history request. 200 trading days for
// SMA200 needs roughly a calendar year of bars.
const historyLookback = 365 * 24 * time.Hour

// Service implements HealthService
type Service struct {
	store         interfaces.DocumentStore
	market        interfaces.MarketDataClient
	portfolioPath string
	logger        *common.Logger
	now           func() time.Time
}

// NewService creates a new health service
func NewService(
	store interfaces.DocumentStore,
	market interfaces.MarketDataClient,
	portfolioPath string,
	logger *common.Logger,
) *Service {
	return &Service{
		store:         store,
		market:        market,
		portfolioPath: portfolioPath,
		logger:        logger,
		now:           time.Now,
	}
}

// Snapshot assembles price, technical, and fundamental data for one code.
// Any provider failure fails the whole snapshot; single-code callers want
// the error, not a half-empty answer.
func (s *Service) Snapshot(ctx context.Context, code string) (*models.StockSnapshot, error) {
	bars, err := s.market.PriceHistory(ctx, code, historyLookback)
	if err != nil {
		return nil, err
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	quote, err := s.market.CurrentSnapshot(ctx, code)
	if err != nil {
		return nil, err
	}
	fundamentals, err := s.market.Fundamentals(ctx, code)
	if err != nil {
		return nil, err
	}

	return &models.StockSnapshot{
		Code: code,
		Price: models.PriceRange{
			Current: quote.CurrentPrice,
			High52W: quote.High52W,
			Low52W:  quote.Low52W,
		},
		Technical:    signals.Compute(closes),
		Fundamentals: *fundamentals,
	}, nil
}

// CheckHoldings evaluates every holding against the alert classifier. A
// provider failure for one holding degrades that holding to an empty
// snapshot, which the classifier reads as green, rather than failing the
// batch.
func (s *Service) CheckHoldings(ctx context.Context) (*models.HealthReport, error) {
	var doc models.PortfolioDocument
	if _, err := storage.LoadJSON(ctx, s.store, s.portfolioPath, &doc); err != nil {
		if !models.IsNotFound(err) {
			return nil, err
		}
	}

	report := &models.HealthReport{
		Summary: map[models.AlertLevel]int{
			models.AlertGreen:  0,
			models.AlertYellow: 0,
			models.AlertOrange: 0,
			models.AlertRed:    0,
		},
		Results:   []models.HoldingHealth{},
		CheckedAt: s.now().Format(time.RFC3339),
	}

	for _, h := range doc.Holdings {
		snapshot, err := s.Snapshot(ctx, h.Code)
		if err != nil {
			s.logger.Warn().Err(err).Str("code", h.Code).Msg("Healthcheck snapshot failed, treating as no data")
			snapshot = &models.StockSnapshot{Code: h.Code}
		}

		alert := signals.Classify(snapshot.Technical, snapshot.Fundamentals, snapshot.Price.Current)
		report.Results = append(report.Results, models.HoldingHealth{
			Code:         h.Code,
			Name:         h.Name,
			Shares:       h.Shares,
			AvgCost:      h.AvgCost,
			CurrentPrice: snapshot.Price.Current,
			Alert:        alert,
			Technical:    snapshot.Technical,
			Fundamentals: snapshot.Fundamentals,
		})
		report.Summary[alert.Level]++
	}

	s.logger.Info().Int("holdings", len(report.Results)).Msg("Healthcheck complete")
	return report, nil
}

// Ensure Service implements HealthService
var _ interfaces.HealthService = (*Service)(nil)
