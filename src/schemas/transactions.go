package schemas

import (
	"fundserver/src/models"
)

type TransactionListResponse struct {
	Items      []models.Transaction `json:"items"`
	TotalCount int                  `json:"totalCount"`
}
