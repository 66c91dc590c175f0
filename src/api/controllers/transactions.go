package controllers

import (
	"context"

	"fundserver/src/repositories"
	"fundserver/src/schemas"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (c *Controller) ListTransactions(ctx context.Context, filter repositories.TransactionFilter, page, pageSize int, sortAsc bool) (*schemas.TransactionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := c.TransactionRepo.List(ctx, filter, repositories.Page{
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
		SortAsc: sortAsc,
	})
	if err != nil {
		return nil, err
	}
	return &schemas.TransactionListResponse{Items: items, TotalCount: total}, nil
}
