package portfolio

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bi-al1/stock-dashboard/internal/models"
)

// averageCost folds a new purchase into an existing position and returns the
// blended average cost rounded to two decimals. Decimal arithmetic keeps the
// blend exact before the single terminal rounding.
func averageCost(avgCost float64, shares int, price float64, boughtShares int) float64 {
	existing := decimal.NewFromFloat(avgCost).Mul(decimal.NewFromInt(int64(shares)))
	added := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(boughtShares)))
	total := decimal.NewFromInt(int64(shares + boughtShares))
	blended, _ := existing.Add(added).Div(total).Round(2).Float64()
	return blended
}

// RebuildHoldings replays an ordered trade history into the holdings it
// implies. The result is a pure function of the surviving sequence: buys
// create or average into a position, sells decrement it, and a position sold
// to zero or below disappears. Holdings come out in first-buy order so
// repeated replays produce identical documents.
//
// A sell with no live position can only appear when the history has been
// edited out from under its buy. Such trades cannot be applied; they are
// skipped and returned so the caller can surface them instead of failing
// the whole rebuild.
func RebuildHoldings(trades []models.Trade) ([]models.Holding, []models.Trade) {
	index := make(map[string]int)
	holdings := make([]models.Holding, 0)
	var skipped []models.Trade

	remove := func(code string) {
		i := index[code]
		holdings = append(holdings[:i], holdings[i+1:]...)
		delete(index, code)
		for c, j := range index {
			if j > i {
				index[c] = j - 1
			}
		}
	}

	for _, t := range trades {
		switch t.Action {
		case models.ActionBuy:
			if i, ok := index[t.Code]; ok {
				h := &holdings[i]
				h.AvgCost = averageCost(h.AvgCost, h.Shares, t.Price, t.Shares)
				h.Shares += t.Shares
			} else {
				index[t.Code] = len(holdings)
				holdings = append(holdings, models.Holding{
					Code:         t.Code,
					Name:         t.Name,
					Shares:       t.Shares,
					AvgCost:      t.Price,
					PurchaseDate: t.Date,
				})
			}
		case models.ActionSell:
			i, ok := index[t.Code]
			if !ok {
				skipped = append(skipped, t)
				continue
			}
			holdings[i].Shares -= t.Shares
			if holdings[i].Shares <= 0 {
				remove(t.Code)
			}
		}
	}

	return holdings, skipped
}

// realizedProfit computes the profit recorded on a sell, rounded to whole
// currency units.
func realizedProfit(price, avgCost float64, shares int) float64 {
	return math.Round((price - avgCost) * float64(shares))
}
