package controllers

import (
	"context"

	"fundserver/src/models"
	"fundserver/src/schemas"
)

func (c *Controller) CreateAccount(ctx context.Context, req *schemas.CreateAccountRequest) (*models.UserAccount, error) {
	return c.AccountService.Create(ctx, req.ID)
}

func (c *Controller) GetAccount(ctx context.Context, id string) (*schemas.AccountSnapshot, error) {
	return c.AccountService.Get(ctx, id)
}

func (c *Controller) DeleteAccount(ctx context.Context, id string) error {
	if err := c.AccountService.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidateTotals()
	return nil
}

func (c *Controller) Invest(ctx context.Context, userID string, req *schemas.InvestRequest) (*schemas.AccountSnapshot, error) {
	snapshot, err := c.AccountService.Invest(ctx, userID, req.Amount, req.ProcessedBy)
	if err != nil {
		return nil, err
	}
	c.invalidateTotals()
	return snapshot, nil
}

func (c *Controller) Withdraw(ctx context.Context, userID string, req *schemas.WithdrawRequest) (*schemas.AccountSnapshot, error) {
	snapshot, err := c.AccountService.Withdraw(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	c.invalidateTotals()
	return snapshot, nil
}
