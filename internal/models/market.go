package models

import "time"

// PriceBar is one daily close in a price history series.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Quote is the provider's current snapshot for a code.
// Nil fields mean the provider had no value.
type Quote struct {
	CurrentPrice *float64 `json:"current"`
	High52W      *float64 `json:"52w_high"`
	Low52W       *float64 `json:"52w_low"`
	ForwardPER   *float64 `json:"forward_per,omitempty"`
	TrailingPER  *float64 `json:"trailing_per,omitempty"`
}

// PriceRange is the price section of a stock snapshot.
type PriceRange struct {
	Current *float64 `json:"current"`
	High52W *float64 `json:"52w_high"`
	Low52W  *float64 `json:"52w_low"`
}

// TechnicalSnapshot holds computed indicator values for a code.
// Nil means the indicator is undefined for the available history
// (e.g. RSI with fewer than 14 deltas, SMA200 with fewer than 200 closes).
type TechnicalSnapshot struct {
	RSI         *float64 `json:"rsi"`
	SMA50       *float64 `json:"sma50"`
	SMA200      *float64 `json:"sma200"`
	GoldenCross *bool    `json:"golden_cross"`
	DeathCross  *bool    `json:"death_cross"`
}

// FundamentalSnapshot holds the fundamental ratios used by the health
// classifier. All values are ratios, not percentages (roe 0.08 = 8%).
type FundamentalSnapshot struct {
	ROE             *float64 `json:"roe"`
	OperatingMargin *float64 `json:"operating_margin"`
	RevenueGrowth   *float64 `json:"revenue_growth"`
}

// StockSnapshot combines live price, technicals, and fundamentals for a code.
// It is ephemeral, recomputed per request and never persisted.
type StockSnapshot struct {
	Code         string              `json:"code"`
	Price        PriceRange          `json:"price"`
	Technical    TechnicalSnapshot   `json:"technical"`
	Fundamentals FundamentalSnapshot `json:"fundamentals"`
}

// AlertLevel is a traffic-light severity for a holding's health.
type AlertLevel string

const (
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertOrange AlertLevel = "orange"
	AlertRed    AlertLevel = "red"
)

// Severity orders alert levels from 0 (green) to 3 (red).
func (l AlertLevel) Severity() int {
	switch l {
	case AlertYellow:
		return 1
	case AlertOrange:
		return 2
	case AlertRed:
		return 3
	}
	return 0
}

// Alert is the classifier's verdict for one holding.
type Alert struct {
	Level  AlertLevel `json:"level"`
	Label  string     `json:"label"`
	Reason string     `json:"reason"`
}

// HoldingHealth is one holding's entry in a healthcheck report.
type HoldingHealth struct {
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	Shares       int                 `json:"shares"`
	AvgCost      float64             `json:"avg_cost"`
	CurrentPrice *float64            `json:"current_price"`
	Alert        Alert               `json:"alert"`
	Technical    TechnicalSnapshot   `json:"technical"`
	Fundamentals FundamentalSnapshot `json:"fundamentals"`
}

// HealthReport is the full healthcheck response: per-holding results plus
// a count of holdings at each alert level.
type HealthReport struct {
	Summary   map[AlertLevel]int `json:"summary"`
	Results   []HoldingHealth    `json:"results"`
	CheckedAt string             `json:"checked_at"`
}
