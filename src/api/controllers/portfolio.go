package controllers

import (
	"context"
	"time"

	"fundserver/src/models"
	"fundserver/src/services"
)

const (
	totalsCacheTTL = 5 * time.Second
	totalsRedisKey = "portfolio:totals:accounts"
)

// PortfolioTotals serves the accounts view through the caches; the trades
// view is a scan and always goes to the repository.
func (c *Controller) PortfolioTotals(ctx context.Context, view string) (*models.PortfolioTotals, error) {
	if view != "" && view != services.ViewAccounts {
		return c.PortfolioService.Totals(ctx, view)
	}

	if cached, ok := c.TotalsCache.Get(time.Now()); ok {
		return &cached, nil
	}
	if c.Redis != nil {
		var cached models.PortfolioTotals
		if err := c.Redis.Get(totalsRedisKey, &cached); err == nil {
			c.TotalsCache.Set(cached, totalsCacheTTL)
			return &cached, nil
		}
	}

	totals, err := c.PortfolioService.Totals(ctx, services.ViewAccounts)
	if err != nil {
		return nil, err
	}
	c.cacheTotals(totals)
	return totals, nil
}

func (c *Controller) RecomputeTotals(ctx context.Context) (*models.PortfolioTotals, error) {
	totals, err := c.PortfolioService.Recompute(ctx)
	if err != nil {
		return nil, err
	}
	c.invalidateTotals()
	c.cacheTotals(totals)
	return totals, nil
}

func (c *Controller) cacheTotals(totals *models.PortfolioTotals) {
	c.TotalsCache.Set(*totals, totalsCacheTTL)
	if c.Redis != nil {
		if err := c.Redis.Set(totalsRedisKey, totals, totalsCacheTTL); err != nil {
			c.Logger.WithError(err).Warn("failed to cache portfolio totals")
		}
	}
}

// invalidateTotals drops both cache layers. Called after every mutation that
// moves units or contributions, so reads never observe pre-mutation totals.
func (c *Controller) invalidateTotals() {
	c.TotalsCache.Clear()
	if c.Redis != nil {
		if err := c.Redis.Delete(totalsRedisKey); err != nil {
			c.Logger.WithError(err).Warn("failed to invalidate portfolio totals cache")
		}
	}
}
