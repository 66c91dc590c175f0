package models

import (
	"time"
)

// UserAccount holds the accounting view of a fund member: the units they own
// and their cumulative contributions. InvestedAmount is lifetime money in,
// not current cost basis; withdrawals do not reduce it.
type UserAccount struct {
	ID             string    `db:"id" json:"id"`
	Units          float64   `db:"units" json:"units"`
	InvestedAmount float64   `db:"invested_amount" json:"investedAmount"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// CurrentValue is always derived from the live NAV, never stored.
func (a *UserAccount) CurrentValue(nav float64) float64 {
	return a.Units * nav
}
