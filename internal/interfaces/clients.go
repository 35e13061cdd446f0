package interfaces

import (
	"context"
	"time"

	"github.com/bi-al1/stock-dashboard/internal/models"
)

// MarketDataClient provides live quotes, price history, and fundamentals
// for a stock code. Implementations must bound every call with a timeout;
// an unresponsive provider must not hang the whole request.
// Failures are surfaced as models.KindUnavailable errors.
type MarketDataClient interface {
	// CurrentSnapshot returns the current price, 52-week range, and
	// forward/trailing earnings multiples. Individual fields may be nil
	// when the provider has no value for them.
	CurrentSnapshot(ctx context.Context, code string) (*models.Quote, error)

	// PriceHistory returns daily closes covering the lookback window,
	// ordered oldest first.
	PriceHistory(ctx context.Context, code string, lookback time.Duration) ([]models.PriceBar, error)

	// Fundamentals returns the ratios used by the health classifier.
	Fundamentals(ctx context.Context, code string) (*models.FundamentalSnapshot, error)
}
