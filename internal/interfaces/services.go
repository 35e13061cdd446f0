package interfaces

import (
	"context"
	"encoding/json"

	"github.com/bi-al1/stock-dashboard/internal/models"
)

// WatchlistAddRequest carries the fields for a new watchlist entry.
type WatchlistAddRequest struct {
	Code string   `json:"code"`
	Name string   `json:"name"`
	Note string   `json:"note"`
	Rank string   `json:"kabumart_rank"`
	PER  *float64 `json:"per"`
}

// WatchlistService manages the watchlist document.
type WatchlistService interface {
	// GetWatchlist returns the watchlist; an absent document is an empty one.
	GetWatchlist(ctx context.Context) (*models.WatchlistDocument, error)

	// AddEntry appends a new entry. A duplicate code is a conflict.
	AddEntry(ctx context.Context, req WatchlistAddRequest) (*models.WatchlistDocument, error)

	// RemoveEntry deletes the entry with the given code and returns the
	// remaining entry count.
	RemoveEntry(ctx context.Context, code string) (int, error)

	// SetStatus updates an entry's status. The status must be a valid
	// models.WatchStatus.
	SetStatus(ctx context.Context, code string, status models.WatchStatus) error

	// RefreshPER refreshes earnings multiples for all non-archived entries,
	// tolerating per-code provider failures, and writes the document once
	// if at least one entry succeeded.
	RefreshPER(ctx context.Context) (*models.PERRefreshResult, error)
}

// BuyRequest records a purchase.
type BuyRequest struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Shares int     `json:"shares"`
	Price  float64 `json:"price"`
	Note   string  `json:"note"`
}

// SellRequest records a sale.
type SellRequest struct {
	Code   string  `json:"code"`
	Shares int     `json:"shares"`
	Price  float64 `json:"price"`
}

// PortfolioService manages the portfolio document: holdings plus the ordered
// trade history they are derived from.
type PortfolioService interface {
	// GetPortfolio returns the portfolio with holdings enriched with live
	// prices; an absent document is an empty one.
	GetPortfolio(ctx context.Context) (*models.PortfolioDocument, error)

	// Buy records a purchase, creating or averaging into a holding.
	Buy(ctx context.Context, req BuyRequest) (*models.Trade, error)

	// Sell records a sale. Selling more shares than held is rejected before
	// any mutation or persistence.
	Sell(ctx context.Context, req SellRequest) (*models.Trade, error)

	// Reset clears holdings and trade history.
	Reset(ctx context.Context) error

	// DeleteHolding removes a holding outright without a profit record.
	DeleteHolding(ctx context.Context, code string) (string, error)

	// DeleteTrade removes the trade at index from the history and rebuilds
	// holdings by replaying the surviving trades. Returns the deleted trade.
	DeleteTrade(ctx context.Context, index int) (*models.Trade, error)
}

// HealthService builds live stock snapshots and classifies holding health.
type HealthService interface {
	// Snapshot assembles price, technical, and fundamental data for a code.
	Snapshot(ctx context.Context, code string) (*models.StockSnapshot, error)

	// CheckHoldings evaluates every holding against the alert classifier.
	// Provider failures for individual holdings degrade to an empty snapshot
	// rather than aborting the batch.
	CheckHoldings(ctx context.Context) (*models.HealthReport, error)
}

// ReportService serves precomputed analysis documents and the manifest
// listing them.
type ReportService interface {
	// GetStockDocument returns the stored analysis JSON for a code.
	GetStockDocument(ctx context.Context, code string) (json.RawMessage, error)

	// GetManifest returns the manifest; an absent document is an empty one.
	GetManifest(ctx context.Context) (*models.Manifest, error)

	// DeleteReport removes a code's analysis document and drops it from
	// the manifest.
	DeleteReport(ctx context.Context, code string) error
}
