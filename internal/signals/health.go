package signals

import (
	"math"

	"github.com/bi-al1/stock-dashboard/internal/models"
)

const (
	oversoldRSI       = 30.0
	convergenceGapPct = 5.0
	revenueDeclineBad = -0.10
)

// fundamentalFlags counts the bad-fundamental conditions that hold. A nil
// ratio never counts as bad.
func fundamentalFlags(f models.FundamentalSnapshot) int {
	count := 0
	if f.ROE != nil && *f.ROE < 0 {
		count++
	}
	if f.RevenueGrowth != nil && *f.RevenueGrowth < revenueDeclineBad {
		count++
	}
	if f.OperatingMargin != nil && *f.OperatingMargin < 0 {
		count++
	}
	return count
}

// Classify maps a holding's technical and fundamental snapshot to a
// traffic-light alert. Rules are evaluated strictly from most to least
// severe, and a missing input never satisfies a condition, so sparse data
// biases toward green.
func Classify(t models.TechnicalSnapshot, f models.FundamentalSnapshot, currentPrice *float64) models.Alert {
	badFundamentals := fundamentalFlags(f)

	if t.DeathCross != nil && *t.DeathCross && badFundamentals >= 2 {
		return models.Alert{
			Level:  models.AlertRed,
			Label:  "Consider exit",
			Reason: "death cross with multiple deteriorating fundamentals",
		}
	}

	if t.SMA50 != nil && t.SMA200 != nil && *t.SMA200 != 0 {
		gap := math.Abs(*t.SMA50-*t.SMA200) / *t.SMA200 * 100
		if gap <= convergenceGapPct && badFundamentals >= 1 {
			return models.Alert{
				Level:  models.AlertOrange,
				Label:  "Caution",
				Reason: "SMA50 and SMA200 converging with weakening fundamentals",
			}
		}
	}

	oversold := t.RSI != nil && *t.RSI <= oversoldRSI
	belowSMA50 := t.SMA50 != nil && currentPrice != nil && *currentPrice < *t.SMA50
	if oversold || belowSMA50 {
		return models.Alert{
			Level:  models.AlertYellow,
			Label:  "Early warning",
			Reason: "RSI oversold or price below SMA50",
		}
	}

	return models.Alert{
		Level:  models.AlertGreen,
		Label:  "Healthy",
		Reason: "no warning conditions",
	}
}
