// Package signals provides technical indicator calculations
package signals

import (
	"math"

	"github.com/bi-al1/stock-dashboard/internal/models"
)

const (
	RSIPeriod    = 14
	ShortSMADays = 50
	LongSMADays  = 200
)

// SMA calculates the Simple Moving Average over the most recent period
// closes. Closes are ordered oldest first. Returns nil when there is not
// enough history.
func SMA(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}

	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	avg := sum / float64(period)
	return &avg
}

// RSI calculates the Relative Strength Index from simple averages of gains
// and losses over the last period deltas. Needs period+1 closes; returns nil
// otherwise. A window with no losses pins the index at 100.
func RSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	window := closes[len(closes)-period-1:]
	var gains, losses float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		v := 100.0
		return &v
	}

	rs := avgGain / avgLoss
	v := 100 - (100 / (1 + rs))
	return &v
}

// Crosses reports the golden and death cross states. Both are nil unless
// both averages are defined; an exact tie is neither cross.
func Crosses(sma50, sma200 *float64) (golden, death *bool) {
	if sma50 == nil || sma200 == nil {
		return nil, nil
	}
	g := *sma50 > *sma200
	d := *sma50 < *sma200
	return &g, &d
}

// Compute derives the full technical snapshot from daily closes ordered
// oldest first. Indicator values are rounded to one decimal for display
// after all derived values are taken from the full-precision averages.
func Compute(closes []float64) models.TechnicalSnapshot {
	sma50 := SMA(closes, ShortSMADays)
	sma200 := SMA(closes, LongSMADays)
	golden, death := Crosses(sma50, sma200)

	return models.TechnicalSnapshot{
		RSI:         round1(RSI(closes, RSIPeriod)),
		SMA50:       round1(sma50),
		SMA200:      round1(sma200),
		GoldenCross: golden,
		DeathCross:  death,
	}
}

func round1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*10) / 10
	return &r
}
