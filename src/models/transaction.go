package models

import (
	"time"
)

const (
	TransactionInvest   = "invest"
	TransactionWithdraw = "withdraw"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Transaction is one row of the immutable invest/withdraw ledger. NAVValue
// stores the rate used at execution time, so deleting NAV records later does
// not rewrite history.
type Transaction struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Type        string    `db:"type" json:"type"`
	Amount      float64   `db:"amount" json:"amount"`
	Units       float64   `db:"units" json:"units"`
	NAVValue    float64   `db:"nav_value" json:"navValue"`
	Status      string    `db:"status" json:"status"`
	ProcessedBy string    `db:"processed_by" json:"processedBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
