// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
)

const (
	DefaultBaseURL      = "https://query1.finance.yahoo.com"
	DefaultSymbolSuffix = ".T" // Tokyo Stock Exchange
	DefaultTimeout      = 8 * time.Second
	DefaultRateLimit    = 5 // requests per second

	// Yahoo rejects requests without a browser-like user agent
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Client implements the MarketDataClient interface on the public Yahoo
// Finance chart and quoteSummary endpoints.
type Client struct {
	baseURL      string
	symbolSuffix string
	httpClient   *http.Client
	logger       *common.Logger
	limiter      *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithSymbolSuffix sets the exchange suffix appended to bare codes
func WithSymbolSuffix(suffix string) ClientOption {
	return func(c *Client) {
		c.symbolSuffix = suffix
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		symbolSuffix: DefaultSymbolSuffix,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// symbol maps a local stock code to a Yahoo symbol. Codes that already
// carry an exchange suffix are passed through unchanged.
func (c *Client) symbol(code string) string {
	if strings.Contains(code, ".") || c.symbolSuffix == "" {
		return code
	}
	return code + c.symbolSuffix
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo Finance API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Unavailablef(err, "yahoo finance request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Unavailablef(&APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}, "yahoo finance returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// rawValue is Yahoo's {"raw": x, "fmt": "..."} number wrapper. Missing or
// empty objects decode to a nil Raw.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// chartResponse is the subset of the v8 chart payload we use
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// quoteSummaryResponse is the subset of the v10 quoteSummary payload we use
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryDetail struct {
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
				ForwardPE        rawValue `json:"forwardPE"`
				TrailingPE       rawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
			FinancialData struct {
				CurrentPrice     rawValue `json:"currentPrice"`
				ReturnOnEquity   rawValue `json:"returnOnEquity"`
				OperatingMargins rawValue `json:"operatingMargins"`
				RevenueGrowth    rawValue `json:"revenueGrowth"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// quoteSummary fetches the combined quote and fundamentals modules once per
// call; CurrentSnapshot and Fundamentals each read their slice of it.
func (c *Client) quoteSummary(ctx context.Context, code string) (*quoteSummaryResponse, error) {
	sym := c.symbol(code)
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,financialData")

	var resp quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(sym), params, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, models.Unavailablef(
			fmt.Errorf("%s: %s", resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description),
			"yahoo finance rejected symbol '%s'", sym)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, models.Unavailablef(nil, "yahoo finance returned no data for '%s'", sym)
	}
	return &resp, nil
}

// CurrentSnapshot returns the live price, 52-week range, and PER multiples
func (c *Client) CurrentSnapshot(ctx context.Context, code string) (*models.Quote, error) {
	resp, err := c.quoteSummary(ctx, code)
	if err != nil {
		return nil, err
	}
	result := resp.QuoteSummary.Result[0]

	price := result.FinancialData.CurrentPrice.Raw
	if price == nil {
		price = result.Price.RegularMarketPrice.Raw
	}

	return &models.Quote{
		CurrentPrice: price,
		High52W:      result.SummaryDetail.FiftyTwoWeekHigh.Raw,
		Low52W:       result.SummaryDetail.FiftyTwoWeekLow.Raw,
		ForwardPER:   result.SummaryDetail.ForwardPE.Raw,
		TrailingPER:  result.SummaryDetail.TrailingPE.Raw,
	}, nil
}

// Fundamentals returns the profitability and growth ratios
func (c *Client) Fundamentals(ctx context.Context, code string) (*models.FundamentalSnapshot, error) {
	resp, err := c.quoteSummary(ctx, code)
	if err != nil {
		return nil, err
	}
	result := resp.QuoteSummary.Result[0]

	return &models.FundamentalSnapshot{
		ROE:             result.FinancialData.ReturnOnEquity.Raw,
		OperatingMargin: result.FinancialData.OperatingMargins.Raw,
		RevenueGrowth:   result.FinancialData.RevenueGrowth.Raw,
	}, nil
}

// rangeParam maps a lookback window to the coarser ranges the chart API
// accepts, rounding up so the window is always covered.
func rangeParam(lookback time.Duration) string {
	days := int(lookback.Hours() / 24)
	switch {
	case days <= 0 || days > 366:
		return "2y"
	case days <= 31:
		return "1mo"
	case days <= 93:
		return "3mo"
	case days <= 186:
		return "6mo"
	default:
		return "1y"
	}
}

// PriceHistory returns daily closes for the lookback window, oldest first.
// Days where the exchange reports a null close are skipped.
func (c *Client) PriceHistory(ctx context.Context, code string, lookback time.Duration) ([]models.PriceBar, error) {
	sym := c.symbol(code)
	params := url.Values{}
	params.Set("range", rangeParam(lookback))
	params.Set("interval", "1d")

	var resp chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(sym), params, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, models.Unavailablef(
			fmt.Errorf("%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description),
			"yahoo finance rejected symbol '%s'", sym)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, models.Unavailablef(nil, "yahoo finance returned no history for '%s'", sym)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, models.Unavailablef(nil, "yahoo finance returned no quotes for '%s'", sym)
	}
	closes := result.Indicators.Quote[0].Close

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		bars = append(bars, models.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	c.logger.Debug().Str("symbol", sym).Int("bars", len(bars)).Msg("Price history retrieved")
	return bars, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
