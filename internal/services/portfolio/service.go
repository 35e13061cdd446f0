// Package portfolio manages the portfolio ledger: current holdings and the
// ordered trade history they are derived from, persisted as a single JSON
// document.
package portfolio

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
	"github.com/bi-al1/stock-dashboard/internal/storage"
)

// Service implements PortfolioService
type Service struct {
	store  interfaces.DocumentStore
	market interfaces.MarketDataClient
	path   string
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new portfolio service
func NewService(
	store interfaces.DocumentStore,
	market interfaces.MarketDataClient,
	path string,
	logger *common.Logger,
) *Service {
	return &Service{
		store:  store,
		market: market,
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// load fetches the portfolio document. When absentOK is true a missing
// document comes back as an empty portfolio with an empty revision, which
// turns the subsequent save into a create.
func (s *Service) load(ctx context.Context, absentOK bool) (*models.PortfolioDocument, interfaces.Revision, error) {
	var doc models.PortfolioDocument
	rev, err := storage.LoadJSON(ctx, s.store, s.path, &doc)
	if err != nil {
		if models.IsNotFound(err) {
			if absentOK {
				return &models.PortfolioDocument{
					Holdings:     []models.Holding{},
					TradeHistory: []models.Trade{},
				}, "", nil
			}
			return nil, "", models.NotFoundf("portfolio data not found")
		}
		return nil, "", err
	}
	if doc.Holdings == nil {
		doc.Holdings = []models.Holding{}
	}
	if doc.TradeHistory == nil {
		doc.TradeHistory = []models.Trade{}
	}
	return &doc, rev, nil
}

func (s *Service) save(ctx context.Context, doc *models.PortfolioDocument, rev interfaces.Revision, message string) error {
	doc.UpdatedAt = s.now().Format(time.RFC3339)
	_, err := storage.SaveJSON(ctx, s.store, s.path, doc, rev, message)
	return err
}

// GetPortfolio returns the portfolio with holdings enriched with live
// prices. A provider failure for one code leaves that holding unenriched
// rather than failing the whole response.
func (s *Service) GetPortfolio(ctx context.Context) (*models.PortfolioDocument, error) {
	doc, _, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}

	for i := range doc.Holdings {
		h := &doc.Holdings[i]
		quote, err := s.market.CurrentSnapshot(ctx, h.Code)
		if err != nil {
			s.logger.Warn().Err(err).Str("code", h.Code).Msg("Failed to fetch current price")
			continue
		}
		if quote.CurrentPrice == nil {
			continue
		}
		current := *quote.CurrentPrice
		h.CurrentPrice = &current
		gainLoss := math.Round((current - h.AvgCost) * float64(h.Shares))
		h.GainLoss = &gainLoss
		if h.AvgCost != 0 {
			pct := math.Round((current-h.AvgCost)/h.AvgCost*1000) / 10
			h.GainLossPct = &pct
		}
	}

	return doc, nil
}

// Buy records a purchase, creating a holding or averaging into an existing
// one.
func (s *Service) Buy(ctx context.Context, req interfaces.BuyRequest) (*models.Trade, error) {
	if req.Code == "" || req.Shares <= 0 || req.Price <= 0 {
		return nil, models.InvalidInputf("buy requires a code, positive shares, and a positive price")
	}

	doc, rev, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}

	today := s.now().Format("2006-01-02")
	trade := models.Trade{
		Date:   today,
		Code:   req.Code,
		Name:   req.Name,
		Action: models.ActionBuy,
		Shares: req.Shares,
		Price:  req.Price,
	}
	doc.TradeHistory = append(doc.TradeHistory, trade)

	if i := doc.FindHolding(req.Code); i >= 0 {
		h := &doc.Holdings[i]
		h.AvgCost = averageCost(h.AvgCost, h.Shares, req.Price, req.Shares)
		h.Shares += req.Shares
	} else {
		doc.Holdings = append(doc.Holdings, models.Holding{
			Code:         req.Code,
			Name:         req.Name,
			Shares:       req.Shares,
			AvgCost:      req.Price,
			PurchaseDate: today,
			Note:         req.Note,
		})
	}

	message := "portfolio: buy " + req.Code
	if err := s.save(ctx, doc, rev, message); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", req.Code).Int("shares", req.Shares).Float64("price", req.Price).Msg("Buy recorded")
	return &trade, nil
}

// Sell records a sale against an existing holding. Overselling is rejected
// before anything is persisted, and the realized profit is fixed from the
// average cost held at this moment.
func (s *Service) Sell(ctx context.Context, req interfaces.SellRequest) (*models.Trade, error) {
	if req.Code == "" || req.Shares <= 0 || req.Price <= 0 {
		return nil, models.InvalidInputf("sell requires a code, positive shares, and a positive price")
	}

	doc, rev, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}

	i := doc.FindHolding(req.Code)
	if i < 0 {
		return nil, models.NotFoundf("%s is not in the portfolio", req.Code)
	}
	h := &doc.Holdings[i]
	if req.Shares > h.Shares {
		return nil, models.InvalidInputf("cannot sell more than the %d shares held", h.Shares)
	}

	profit := realizedProfit(req.Price, h.AvgCost, req.Shares)
	trade := models.Trade{
		Date:   s.now().Format("2006-01-02"),
		Code:   req.Code,
		Name:   h.Name,
		Action: models.ActionSell,
		Shares: req.Shares,
		Price:  req.Price,
		Profit: &profit,
	}
	doc.TradeHistory = append(doc.TradeHistory, trade)

	h.Shares -= req.Shares
	if h.Shares == 0 {
		doc.Holdings = append(doc.Holdings[:i], doc.Holdings[i+1:]...)
	}

	message := "portfolio: sell " + req.Code
	if err := s.save(ctx, doc, rev, message); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", req.Code).Int("shares", req.Shares).Float64("profit", profit).Msg("Sell recorded")
	return &trade, nil
}

// Reset clears holdings and trade history
func (s *Service) Reset(ctx context.Context) error {
	_, rev, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	empty := &models.PortfolioDocument{
		Holdings:     []models.Holding{},
		TradeHistory: []models.Trade{},
	}
	if err := s.save(ctx, empty, rev, "portfolio: reset"); err != nil {
		return err
	}

	s.logger.Info().Msg("Portfolio reset")
	return nil
}

// DeleteHolding removes a holding outright, for correcting bad manual
// entries. No profit is recorded and the trade history is untouched.
func (s *Service) DeleteHolding(ctx context.Context, code string) (string, error) {
	doc, rev, err := s.load(ctx, false)
	if err != nil {
		return "", err
	}

	codeUpper := strings.ToUpper(strings.TrimSpace(code))
	i := doc.FindHolding(codeUpper)
	if i < 0 {
		return "", models.NotFoundf("%s is not in the portfolio", codeUpper)
	}
	doc.Holdings = append(doc.Holdings[:i], doc.Holdings[i+1:]...)

	if err := s.save(ctx, doc, rev, "portfolio: delete holding "+codeUpper); err != nil {
		return "", err
	}

	s.logger.Info().Str("code", codeUpper).Msg("Holding deleted")
	return codeUpper, nil
}

// DeleteTrade removes the trade at index and rebuilds holdings by replaying
// the surviving history. Replay-derived holdings lose their manual notes;
// that is accepted as the cost of rebuilding from the ledger alone.
func (s *Service) DeleteTrade(ctx context.Context, index int) (*models.Trade, error) {
	doc, rev, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(doc.TradeHistory) {
		return nil, models.NotFoundf("trade index %d out of range (%d trades)", index, len(doc.TradeHistory))
	}

	deleted := doc.TradeHistory[index]
	doc.TradeHistory = append(doc.TradeHistory[:index], doc.TradeHistory[index+1:]...)

	holdings, skipped := RebuildHoldings(doc.TradeHistory)
	doc.Holdings = holdings
	for _, t := range skipped {
		s.logger.Warn().Str("code", t.Code).Str("date", t.Date).Msg("Orphaned sell skipped during replay")
	}

	if err := s.save(ctx, doc, rev, "portfolio: delete trade "+deleted.Code); err != nil {
		return nil, err
	}

	s.logger.Info().Int("index", index).Str("code", deleted.Code).Msg("Trade deleted and holdings rebuilt")
	return &deleted, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
