package models

import "strings"

// TradeAction is the direction of a recorded trade
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// Holding represents a current position, keyed by code.
// A holding exists only while shares > 0; selling a position down to zero
// removes it from the document entirely.
type Holding struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Shares       int     `json:"shares"`
	AvgCost      float64 `json:"avg_cost"`
	PurchaseDate string  `json:"purchase_date"`
	Note         string  `json:"note"`

	// Live enrichment, computed on response and not persisted
	CurrentPrice *float64 `json:"current_price,omitempty"`
	GainLoss     *float64 `json:"gain_loss,omitempty"`
	GainLossPct  *float64 `json:"gain_loss_pct,omitempty"`
}

// Trade is one entry in the ordered trade history. Trades are immutable once
// recorded; the only mutation supported is deletion by index, which triggers
// a full holdings replay. Profit is set for sells at commit time using the
// average cost held at that moment, and is never recomputed during replay.
type Trade struct {
	Date   string      `json:"date"`
	Code   string      `json:"code"`
	Name   string      `json:"name"`
	Action TradeAction `json:"action"`
	Shares int         `json:"shares"`
	Price  float64     `json:"price"`
	Profit *float64    `json:"profit,omitempty"`
}

// PortfolioDocument is the root aggregate persisted as a single JSON document.
type PortfolioDocument struct {
	Holdings     []Holding `json:"holdings"`
	TradeHistory []Trade   `json:"trade_history"`
	UpdatedAt    string    `json:"updated_at,omitempty"`
}

// FindHolding returns the index of the holding with the given code, or -1.
// Codes are compared case-insensitively.
func (d *PortfolioDocument) FindHolding(code string) int {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i := range d.Holdings {
		if strings.ToUpper(d.Holdings[i].Code) == code {
			return i
		}
	}
	return -1
}
