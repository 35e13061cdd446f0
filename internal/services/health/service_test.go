package health

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
)

const testPath = "data/portfolio.json"

type memStore struct {
	docs map[string]json.RawMessage
}

func (m *memStore) Get(ctx context.Context, path string) (json.RawMessage, interfaces.Revision, error) {
	doc, ok := m.docs[path]
	if !ok {
		return nil, "", models.NotFoundf("document '%s' not found", path)
	}
	return doc, "r1", nil
}

func (m *memStore) Put(ctx context.Context, path string, doc json.RawMessage, rev interfaces.Revision, message string) (interfaces.Revision, error) {
	m.docs[path] = doc
	return "r2", nil
}

func (m *memStore) Delete(ctx context.Context, path string, rev interfaces.Revision, message string) error {
	delete(m.docs, path)
	return nil
}

func storeWithPortfolio(t *testing.T, doc models.PortfolioDocument) *memStore {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return &memStore{docs: map[string]json.RawMessage{testPath: raw}}
}

type stubMarket struct {
	closes       map[string][]float64
	quotes       map[string]*models.Quote
	fundamentals map[string]*models.FundamentalSnapshot
	errs         map[string]error
}

func (c *stubMarket) CurrentSnapshot(ctx context.Context, code string) (*models.Quote, error) {
	if err, ok := c.errs[code]; ok {
		return nil, err
	}
	if q, ok := c.quotes[code]; ok {
		return q, nil
	}
	return &models.Quote{}, nil
}

func (c *stubMarket) PriceHistory(ctx context.Context, code string, lookback time.Duration) ([]models.PriceBar, error) {
	if err, ok := c.errs[code]; ok {
		return nil, err
	}
	closes := c.closes[code]
	bars := make([]models.PriceBar, len(closes))
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i, close := range closes {
		bars[i] = models.PriceBar{Date: base.AddDate(0, 0, i), Close: close}
	}
	return bars, nil
}

func (c *stubMarket) Fundamentals(ctx context.Context, code string) (*models.FundamentalSnapshot, error) {
	if err, ok := c.errs[code]; ok {
		return nil, err
	}
	if f, ok := c.fundamentals[code]; ok {
		return f, nil
	}
	return &models.FundamentalSnapshot{}, nil
}

func fp(v float64) *float64 { return &v }

func fallingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 1000 - float64(i)
	}
	return closes
}

func newTestService(store *memStore, market *stubMarket) *Service {
	svc := NewService(store, market, testPath, common.NewSilentLogger())
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestSnapshotAssemblesAllSections(t *testing.T) {
	market := &stubMarket{
		closes: map[string][]float64{"7203": fallingCloses(250)},
		quotes: map[string]*models.Quote{"7203": {
			CurrentPrice: fp(750), High52W: fp(1000), Low52W: fp(740),
		}},
		fundamentals: map[string]*models.FundamentalSnapshot{"7203": {
			ROE: fp(0.08), OperatingMargin: fp(0.11), RevenueGrowth: fp(0.02),
		}},
	}
	svc := newTestService(&memStore{docs: map[string]json.RawMessage{}}, market)

	snap, err := svc.Snapshot(context.Background(), "7203")
	require.NoError(t, err)
	assert.Equal(t, "7203", snap.Code)
	assert.Equal(t, 750.0, *snap.Price.Current)
	require.NotNil(t, snap.Technical.SMA50)
	require.NotNil(t, snap.Technical.SMA200)
	require.NotNil(t, snap.Technical.DeathCross)
	assert.True(t, *snap.Technical.DeathCross, "falling series puts the short average below")
	assert.Equal(t, 0.08, *snap.Fundamentals.ROE)
}

func TestSnapshotProviderFailureSurfaces(t *testing.T) {
	market := &stubMarket{errs: map[string]error{"7203": models.Unavailablef(nil, "provider down")}}
	svc := newTestService(&memStore{docs: map[string]json.RawMessage{}}, market)

	_, err := svc.Snapshot(context.Background(), "7203")
	require.Error(t, err)
	assert.Equal(t, models.KindUnavailable, models.KindOf(err))
}

func TestSnapshotShortHistoryLeavesIndicatorsNil(t *testing.T) {
	market := &stubMarket{closes: map[string][]float64{"7203": fallingCloses(10)}}
	svc := newTestService(&memStore{docs: map[string]json.RawMessage{}}, market)

	snap, err := svc.Snapshot(context.Background(), "7203")
	require.NoError(t, err)
	assert.Nil(t, snap.Technical.RSI)
	assert.Nil(t, snap.Technical.SMA50)
	assert.Nil(t, snap.Technical.GoldenCross)
}

func TestCheckHoldingsSummarisesAllLevels(t *testing.T) {
	store := storeWithPortfolio(t, models.PortfolioDocument{Holdings: []models.Holding{
		{Code: "7203", Name: "Toyota", Shares: 100, AvgCost: 1000},
		{Code: "9984", Name: "SoftBank", Shares: 10, AvgCost: 7000},
	}})
	market := &stubMarket{
		// Red: falling series (death cross) with two bad fundamentals
		closes: map[string][]float64{
			"7203": fallingCloses(250),
			"9984": {7000, 7010, 7020},
		},
		quotes: map[string]*models.Quote{
			"7203": {CurrentPrice: fp(750)},
			"9984": {CurrentPrice: fp(7020)},
		},
		fundamentals: map[string]*models.FundamentalSnapshot{
			"7203": {ROE: fp(-0.05), RevenueGrowth: fp(-0.2), OperatingMargin: fp(0.1)},
		},
	}
	svc := newTestService(store, market)

	report, err := svc.CheckHoldings(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	assert.Equal(t, models.AlertRed, report.Results[0].Alert.Level)
	assert.Equal(t, models.AlertGreen, report.Results[1].Alert.Level)

	assert.Equal(t, 1, report.Summary[models.AlertRed])
	assert.Equal(t, 1, report.Summary[models.AlertGreen])
	assert.Equal(t, 0, report.Summary[models.AlertYellow])
	assert.Equal(t, 0, report.Summary[models.AlertOrange])
	assert.NotEmpty(t, report.CheckedAt)

	assert.Equal(t, 100, report.Results[0].Shares)
	assert.Equal(t, 1000.0, report.Results[0].AvgCost)
	assert.Equal(t, 750.0, *report.Results[0].CurrentPrice)
}

func TestCheckHoldingsProviderFailureDegradesToGreen(t *testing.T) {
	store := storeWithPortfolio(t, models.PortfolioDocument{Holdings: []models.Holding{
		{Code: "7203", Name: "Toyota", Shares: 100, AvgCost: 1000},
	}})
	market := &stubMarket{errs: map[string]error{"7203": models.Unavailablef(nil, "provider down")}}
	svc := newTestService(store, market)

	report, err := svc.CheckHoldings(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, models.AlertGreen, report.Results[0].Alert.Level)
	assert.Nil(t, report.Results[0].CurrentPrice)
}

func TestCheckHoldingsAbsentPortfolio(t *testing.T) {
	svc := newTestService(&memStore{docs: map[string]json.RawMessage{}}, &stubMarket{})

	report, err := svc.CheckHoldings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, report.Summary[models.AlertGreen])
}
