package models

import (
	"time"
)

const (
	PositionActive  = "active"
	PositionPartial = "partial"
	PositionSold    = "sold"
)

// TradePosition is a direct stock holding of the fund, tracked through
// partial liquidation. SellingPrice and SellingDate always reflect the
// latest sell; earlier partial-sell pricing is overwritten, not averaged.
// Version backs the optimistic concurrency check on sells.
type TradePosition struct {
	ID             string     `db:"id" json:"id"`
	StockName      string     `db:"stock_name" json:"stockName"`
	PurchaseRate   float64    `db:"purchase_rate" json:"purchaseRate"`
	UnitsPurchased int        `db:"units_purchased" json:"unitsPurchased"`
	PurchaseDate   time.Time  `db:"purchase_date" json:"purchaseDate"`
	SellingPrice   *float64   `db:"selling_price" json:"sellingPrice"`
	UnitsSold      int        `db:"units_sold" json:"unitsSold"`
	SellingDate    *time.Time `db:"selling_date" json:"sellingDate"`
	Status         string     `db:"status" json:"status"`
	Version        int64      `db:"version" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// PositionStatusFor derives the lifecycle status from the sold/purchased pair.
func PositionStatusFor(unitsSold, unitsPurchased int) string {
	switch {
	case unitsSold == 0:
		return PositionActive
	case unitsSold < unitsPurchased:
		return PositionPartial
	default:
		return PositionSold
	}
}

func (p *TradePosition) RemainingUnits() int {
	return p.UnitsPurchased - p.UnitsSold
}

// RealizedReturn values every sold unit at the latest selling price. With the
// single-slot pricing model this is only exact for single-tranche exits.
func (p *TradePosition) RealizedReturn() float64 {
	if p.UnitsSold == 0 || p.SellingPrice == nil {
		return 0
	}
	return float64(p.UnitsSold) * (*p.SellingPrice - p.PurchaseRate)
}

// TotalInvestment is the original cost of the position, unaffected by sells.
// Remaining cost is RemainingUnits() * PurchaseRate.
func (p *TradePosition) TotalInvestment() float64 {
	return float64(p.UnitsPurchased) * p.PurchaseRate
}
