package controllers

import (
	"context"

	"fundserver/src/models"
	"fundserver/src/schemas"
	"fundserver/src/utils"
)

func (c *Controller) PublishNAV(ctx context.Context, req *schemas.PublishNAVRequest) (*models.NAVRecord, error) {
	rec, err := c.NAVService.Publish(ctx, req.Date.ToTime(), req.Value, req.UpdatedBy)
	if err != nil {
		return nil, err
	}
	// A new NAV changes every derived valuation; cached totals stay valid
	// (units and contributions are NAV-independent) but log for traceability.
	utils.LoggerFromContext(ctx).WithField("value", rec.Value).Info("nav published")
	return rec, nil
}

func (c *Controller) CurrentNAV(ctx context.Context) (*schemas.CurrentNAVResponse, error) {
	value, err := c.NAVService.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &schemas.CurrentNAVResponse{Value: value}, nil
}

func (c *Controller) ListNAV(ctx context.Context) ([]models.NAVRecord, error) {
	return c.NAVService.List(ctx)
}

func (c *Controller) DeleteNAV(ctx context.Context, id string) error {
	return c.NAVService.Delete(ctx, id)
}
