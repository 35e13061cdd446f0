// Package watchlist manages the watchlist document: the stocks being
// tracked, their lifecycle status, and their earnings-multiple history.
package watchlist

import (
	"context"
	"math"
	"time"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
	"github.com/bi-al1/stock-dashboard/internal/storage"
)

// Service implements WatchlistService
type Service struct {
	store  interfaces.DocumentStore
	market interfaces.MarketDataClient
	path   string
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new watchlist service
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

// load fetches the watchlist document. When absentOK is true a missing
// document comes back empty with an empty revision, so the next save
// creates it.
func (s *Service) load(ctx context.Context, absentOK bool) (*models.WatchlistDocument, interfaces.Revision, error) {
	var doc models.WatchlistDocument
	rev, err := storage.LoadJSON(ctx, s.store, s.path, &doc)
	if err != nil {
		if models.IsNotFound(err) && absentOK {
			return &models.WatchlistDocument{Watchlist: []models.WatchlistEntry{}}, "", nil
		}
		return nil, "", err
	}
	if doc.Watchlist == nil {
		doc.Watchlist = []models.WatchlistEntry{}
	}
	return &doc, rev, nil
}

func (s *Service) save(ctx context.Context, doc *models.WatchlistDocument, rev interfaces.Revision, message string) error {
	doc.UpdatedAt = s.now().Format(time.RFC3339)
	_, err := storage.SaveJSON(ctx, s.store, s.path, doc, rev, message)
	return err
}

// GetWatchlist returns the watchlist; an absent document is an empty one.
func (s *Service) GetWatchlist(ctx context.Context) (*models.WatchlistDocument, error) {
	doc, _, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	if doc.UpdatedAt == "" {
		doc.UpdatedAt = s.now().Format(time.RFC3339)
	}
	return doc, nil
}

// AddEntry appends a new entry. New stocks land as archived so they stay out
// of the bulk PER refresh until promoted by hand.
func (s *Service) AddEntry(ctx context.Context, req interfaces.WatchlistAddRequest) (*models.WatchlistDocument, error) {
	if req.Code == "" {
		return nil, models.InvalidInputf("watchlist entry requires a code")
	}

	doc, rev, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}

	if doc.FindByCode(req.Code) >= 0 {
		return nil, models.Conflictf("%s (%s) is already on the watchlist", req.Name, req.Code)
	}

	today := s.now().Format("2006-01-02")
	entry := models.WatchlistEntry{
		Code:      req.Code,
		Name:      req.Name,
		AddedDate: today,
		Note:      req.Note,
		Rank:      req.Rank,
		Status:    models.StatusArchived,
	}
	if req.PER != nil {
		entry.PER = req.PER
		entry.PERHistory = []models.PERRecord{{Date: today, PER: req.PER, Source: "analysis"}}
	}
	doc.Watchlist = append(doc.Watchlist, entry)

	if err := s.save(ctx, doc, rev, "watchlist: add "+req.Code); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", req.Code).Str("name", req.Name).Msg("Watchlist entry added")
	return doc, nil
}

// RemoveEntry deletes the entry with the given code and returns how many
// entries remain.
func (s *Service) RemoveEntry(ctx context.Context, code string) (int, error) {
	doc, rev, err := s.load(ctx, false)
	if err != nil {
		return 0, err
	}

	i := doc.FindByCode(code)
	if i < 0 {
		return 0, models.NotFoundf("%s is not on the watchlist", code)
	}
	doc.Watchlist = append(doc.Watchlist[:i], doc.Watchlist[i+1:]...)

	if err := s.save(ctx, doc, rev, "watchlist: remove "+code); err != nil {
		return 0, err
	}

	s.logger.Info().Str("code", code).Msg("Watchlist entry removed")
	return len(doc.Watchlist), nil
}

// SetStatus updates an entry's lifecycle status
func (s *Service) SetStatus(ctx context.Context, code string, status models.WatchStatus) error {
	if !status.Valid() {
		return models.InvalidInputf("invalid status: %s", status)
	}

	doc, rev, err := s.load(ctx, false)
	if err != nil {
		return err
	}

	i := doc.FindByCode(code)
	if i < 0 {
		return models.NotFoundf("%s is not on the watchlist", code)
	}
	doc.Watchlist[i].Status = status
	doc.Watchlist[i].UpdatedAt = s.now().Format(time.RFC3339)

	if err := s.save(ctx, doc, rev, "watchlist: set "+code+" status to "+string(status)); err != nil {
		return err
	}

	s.logger.Info().Str("code", code).Str("status", string(status)).Msg("Watchlist status updated")
	return nil
}

// RefreshPER refreshes the earnings multiple for every non-archived entry.
// Provider failures are captured per code while successful entries still
// commit; the document is written once, and only if something succeeded.
func (s *Service) RefreshPER(ctx context.Context) (*models.PERRefreshResult, error) {
	result := &models.PERRefreshResult{
		Results: []models.PERRefreshItem{},
		Errors:  []models.PERRefreshError{},
	}

	doc, rev, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	if rev == "" {
		result.CheckedAt = s.now().Format(time.RFC3339)
		return result, nil
	}

	today := s.now().Format("2006-01-02")
	for i := range doc.Watchlist {
		entry := &doc.Watchlist[i]
		if entry.Status == models.StatusArchived {
			continue
		}

		quote, err := s.market.CurrentSnapshot(ctx, entry.Code)
		if err != nil {
			s.logger.Warn().Err(err).Str("code", entry.Code).Msg("PER refresh failed for code")
			result.Errors = append(result.Errors, models.PERRefreshError{
				Code: entry.Code, Name: entry.Name, Error: err.Error(),
			})
			continue
		}

		per := quote.ForwardPER
		if per == nil {
			per = quote.TrailingPER
		}
		per = round1(per)

		oldPER := entry.PER
		entry.PER = per
		recordPER(entry, today, per)

		result.Results = append(result.Results, models.PERRefreshItem{
			Code: entry.Code, Name: entry.Name, OldPER: oldPER, NewPER: per,
		})
	}

	result.Updated = len(result.Results)
	result.CheckedAt = s.now().Format(time.RFC3339)

	if result.Updated > 0 {
		if err := s.save(ctx, doc, rev, "watchlist: bulk PER refresh"); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int("updated", result.Updated).Int("errors", len(result.Errors)).Msg("PER refresh complete")
	return result, nil
}

// recordPER appends a dated history point, overwriting an existing point for
// the same day so the history holds at most one record per calendar date.
func recordPER(entry *models.WatchlistEntry, date string, per *float64) {
	for i := range entry.PERHistory {
		if entry.PERHistory[i].Date == date {
			entry.PERHistory[i].PER = per
			entry.PERHistory[i].Source = "yahoo"
			return
		}
	}
	entry.PERHistory = append(entry.PERHistory, models.PERRecord{Date: date, PER: per, Source: "yahoo"})
}

func round1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*10) / 10
	return &r
}

// Ensure Service implements WatchlistService
var _ interfaces.WatchlistService = (*Service)(nil)
