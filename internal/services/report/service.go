// Package report serves the precomputed analysis documents written by the
// offline pipeline, and maintains the manifest listing them.
package report

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
	"github.com/bi-al1/stock-dashboard/internal/storage"
)

// Service implements ReportService
type Service struct {
	store  interfaces.DocumentStore
	paths  common.DocumentPaths
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new report service
func NewService(store interfaces.DocumentStore, paths common.DocumentPaths, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		paths:  paths,
		logger: logger,
		now:    time.Now,
	}
}

// GetStockDocument returns the stored analysis JSON for a code, passed
// through untouched. The documents are produced elsewhere; this service
// does not interpret them.
func (s *Service) GetStockDocument(ctx context.Context, code string) (json.RawMessage, error) {
	raw, _, err := s.store.Get(ctx, s.paths.StockPath(code))
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NotFoundf("analysis data for %s not found", strings.ToUpper(code))
		}
		return nil, err
	}
	return raw, nil
}

// GetManifest returns the manifest; an absent document is an empty one.
func (s *Service) GetManifest(ctx context.Context) (*models.Manifest, error) {
	var manifest models.Manifest
	if _, err := storage.LoadJSON(ctx, s.store, s.paths.Manifest, &manifest); err != nil {
		if models.IsNotFound(err) {
			return &models.Manifest{
				Stocks:    []models.ManifestEntry{},
				UpdatedAt: s.now().Format(time.RFC3339),
			}, nil
		}
		return nil, err
	}
	if manifest.Stocks == nil {
		manifest.Stocks = []models.ManifestEntry{}
	}
	return &manifest, nil
}

// DeleteReport removes a code's analysis document and then drops it from
// the manifest. The two writes are not atomic; a manifest failure after the
// document delete leaves a dangling manifest entry, which the next delete
// or manifest rewrite repairs.
func (s *Service) DeleteReport(ctx context.Context, code string) error {
	codeUpper := strings.ToUpper(strings.TrimSpace(code))
	path := s.paths.StockPath(codeUpper)

	_, rev, err := s.store.Get(ctx, path)
	if err != nil {
		if models.IsNotFound(err) {
			return models.NotFoundf("analysis report for %s not found", codeUpper)
		}
		return err
	}
	if err := s.store.Delete(ctx, path, rev, "report: delete "+codeUpper); err != nil {
		return err
	}

	var manifest models.Manifest
	manifestRev, err := storage.LoadJSON(ctx, s.store, s.paths.Manifest, &manifest)
	if err != nil {
		if models.IsNotFound(err) {
			s.logger.Debug().Str("code", codeUpper).Msg("No manifest to update after report delete")
			return nil
		}
		return err
	}

	if manifest.RemoveCode(codeUpper) {
		manifest.UpdatedAt = s.now().Format(time.RFC3339)
		if _, err := storage.SaveJSON(ctx, s.store, s.paths.Manifest, &manifest, manifestRev, "manifest: drop "+codeUpper); err != nil {
			return err
		}
	}

	s.logger.Info().Str("code", codeUpper).Msg("Analysis report deleted")
	return nil
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
