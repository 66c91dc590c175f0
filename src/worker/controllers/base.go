package controllers

import (
	"context"

	"fundserver/src/models"
	"fundserver/src/services"

	"github.com/sirupsen/logrus"
)

// Controller drives the background maintenance work: totals reconciliation,
// triggered either by cron or by an explicit request.
type Controller struct {
	PortfolioService services.PortfolioServiceI
	Logger           *logrus.Logger
}

func NewController(portfolioService services.PortfolioServiceI, logger *logrus.Logger) *Controller {
	return &Controller{PortfolioService: portfolioService, Logger: logger}
}

func (c *Controller) RunReconcile(ctx context.Context) (*models.PortfolioTotals, error) {
	if err := c.PortfolioService.Reconcile(ctx); err != nil {
		return nil, err
	}
	return c.PortfolioService.Totals(ctx, services.ViewAccounts)
}
