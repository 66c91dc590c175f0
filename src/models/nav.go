package models

import (
	"time"
)

// NAVRecord is one published net-asset-value point. Records are append-only:
// once written they are never updated, only administratively deleted.
type NAVRecord struct {
	ID        string    `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Value     float64   `db:"value" json:"value"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
