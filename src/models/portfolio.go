package models

import (
	"time"
)

// PortfolioTotals is the materialized fund-wide aggregate. It must always
// equal the sum over the underlying entities; repositories update it inside
// the same transaction as the balance mutation it reflects.
type PortfolioTotals struct {
	TotalUnits      float64   `db:"total_units" json:"totalUnits"`
	TotalInvestment float64   `db:"total_investment" json:"totalInvestment"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
