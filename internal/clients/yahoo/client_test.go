package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bi-al1/stock-dashboard/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithRateLimit(100))
}

func TestSymbolSuffix(t *testing.T) {
	c := NewClient()
	assert.Equal(t, "7203.T", c.symbol("7203"))
	assert.Equal(t, "7203.T", c.symbol("7203"), "suffix must not stack")
	assert.Equal(t, "AAPL.US", c.symbol("AAPL.US"), "explicit suffix passes through")

	bare := NewClient(WithSymbolSuffix(""))
	assert.Equal(t, "7203", bare.symbol("7203"))
}

func TestCurrentSnapshot(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/7203.T", r.URL.Path)
		assert.Equal(t, "price,summaryDetail,financialData", r.URL.Query().Get("modules"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"quoteSummary":{"result":[{
			"price":{"regularMarketPrice":{"raw":2500.0}},
			"summaryDetail":{
				"fiftyTwoWeekHigh":{"raw":3100.0},
				"fiftyTwoWeekLow":{"raw":2100.0},
				"forwardPE":{"raw":10.5},
				"trailingPE":{"raw":11.2}
			},
			"financialData":{"currentPrice":{"raw":2501.5}}
		}],"error":null}}`))
	}))

	quote, err := client.CurrentSnapshot(context.Background(), "7203")
	require.NoError(t, err)
	require.NotNil(t, quote.CurrentPrice)
	assert.Equal(t, 2501.5, *quote.CurrentPrice, "financialData price wins over regularMarketPrice")
	assert.Equal(t, 3100.0, *quote.High52W)
	assert.Equal(t, 2100.0, *quote.Low52W)
	assert.Equal(t, 10.5, *quote.ForwardPER)
	assert.Equal(t, 11.2, *quote.TrailingPER)
}

func TestCurrentSnapshotFallsBackToMarketPrice(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{
			"price":{"regularMarketPrice":{"raw":2500.0}},
			"summaryDetail":{"forwardPE":{}},
			"financialData":{}
		}],"error":null}}`))
	}))

	quote, err := client.CurrentSnapshot(context.Background(), "7203")
	require.NoError(t, err)
	require.NotNil(t, quote.CurrentPrice)
	assert.Equal(t, 2500.0, *quote.CurrentPrice)
	assert.Nil(t, quote.ForwardPER, "empty raw wrapper decodes to nil")
	assert.Nil(t, quote.High52W)
}

func TestFundamentals(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{
			"financialData":{
				"returnOnEquity":{"raw":0.12},
				"operatingMargins":{"raw":0.08},
				"revenueGrowth":{"raw":-0.02}
			}
		}],"error":null}}`))
	}))

	f, err := client.Fundamentals(context.Background(), "7203")
	require.NoError(t, err)
	assert.Equal(t, 0.12, *f.ROE)
	assert.Equal(t, 0.08, *f.OperatingMargin)
	assert.Equal(t, -0.02, *f.RevenueGrowth)
}

func TestPriceHistory(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/7203.T", r.URL.Path)
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1700000000,1700086400,1700172800],
			"indicators":{"quote":[{"close":[2500.0,null,2510.0]}]}
		}],"error":null}}`))
	}))

	bars, err := client.PriceHistory(context.Background(), "7203", 365*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, bars, 2, "null closes are skipped")
	assert.Equal(t, 2500.0, bars[0].Close)
	assert.Equal(t, 2510.0, bars[1].Close)
	assert.True(t, bars[0].Date.Before(bars[1].Date), "bars are oldest first")
}

func TestPriceHistorySymbolNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))

	_, err := client.PriceHistory(context.Background(), "0000", 365*24*time.Hour)
	require.Error(t, err)
	assert.Equal(t, models.KindUnavailable, models.KindOf(err))
}

func TestServerErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))

	_, err := client.CurrentSnapshot(context.Background(), "7203")
	require.Error(t, err)
	assert.Equal(t, models.KindUnavailable, models.KindOf(err))
}

func TestRangeParam(t *testing.T) {
	assert.Equal(t, "1mo", rangeParam(20*24*time.Hour))
	assert.Equal(t, "3mo", rangeParam(90*24*time.Hour))
	assert.Equal(t, "6mo", rangeParam(180*24*time.Hour))
	assert.Equal(t, "1y", rangeParam(365*24*time.Hour))
	assert.Equal(t, "2y", rangeParam(500*24*time.Hour))
	assert.Equal(t, "2y", rangeParam(0))
}
