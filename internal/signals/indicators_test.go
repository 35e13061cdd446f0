package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	sma := SMA(closes, 3)
	require.NotNil(t, sma)
	assert.InDelta(t, 4.0, *sma, 1e-9, "averages the most recent closes")

	assert.Nil(t, SMA(closes, 6), "insufficient history")
	assert.Nil(t, SMA(nil, 3))
	assert.Nil(t, SMA(closes, 0))
}

func TestRSIRequiresPeriodPlusOne(t *testing.T) {
	assert.Nil(t, RSI(risingCloses(14), 14), "14 closes give only 13 deltas")
	assert.NotNil(t, RSI(risingCloses(15), 14))
}

func TestRSIAllGainsPinsAt100(t *testing.T) {
	rsi := RSI(risingCloses(20), 14)
	require.NotNil(t, rsi)
	assert.Equal(t, 100.0, *rsi)
}

func TestRSIAllLossesNearZero(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 0.0, *rsi, 1e-9)
}

func TestRSIMixedWindow(t *testing.T) {
	// 7 gains of 2 and 7 losses of 1 over the last 14 deltas:
	// avgGain=1, avgLoss=0.5, RS=2, RSI=100-100/3
	closes := []float64{100}
	v := 100.0
	for i := 0; i < 7; i++ {
		v += 2
		closes = append(closes, v)
	}
	for i := 0; i < 7; i++ {
		v -= 1
		closes = append(closes, v)
	}
	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 100-100.0/3, *rsi, 1e-9)
}

func TestCrosses(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	golden, death := Crosses(f(110), f(100))
	require.NotNil(t, golden)
	assert.True(t, *golden)
	assert.False(t, *death)

	golden, death = Crosses(f(90), f(100))
	assert.False(t, *golden)
	assert.True(t, *death)

	golden, death = Crosses(f(100), f(100))
	assert.False(t, *golden, "a tie is neither cross")
	assert.False(t, *death)

	golden, death = Crosses(nil, f(100))
	assert.Nil(t, golden)
	assert.Nil(t, death)
}

func TestComputeShortHistory(t *testing.T) {
	snap := Compute(risingCloses(60))
	require.NotNil(t, snap.RSI)
	require.NotNil(t, snap.SMA50)
	assert.Nil(t, snap.SMA200, "needs 200 closes")
	assert.Nil(t, snap.GoldenCross, "crosses undefined without both averages")
	assert.Nil(t, snap.DeathCross)
}

func TestComputeFullHistory(t *testing.T) {
	snap := Compute(risingCloses(250))
	require.NotNil(t, snap.SMA50)
	require.NotNil(t, snap.SMA200)
	require.NotNil(t, snap.GoldenCross)
	assert.True(t, *snap.GoldenCross, "rising series keeps the short average on top")
	assert.False(t, *snap.DeathCross)
	assert.Greater(t, *snap.SMA50, *snap.SMA200)
}

func TestComputeRoundsForDisplay(t *testing.T) {
	// Closes chosen so the SMA has more than one decimal
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100.0 + float64(i)*0.33
	}
	snap := Compute(closes)
	require.NotNil(t, snap.SMA50)
	assert.InDelta(t, math.Round(*snap.SMA50*10), *snap.SMA50*10, 1e-9)
}
