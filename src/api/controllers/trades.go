package controllers

import (
	"context"

	"fundserver/src/models"
	"fundserver/src/schemas"
)

func (c *Controller) OpenPosition(ctx context.Context, req *schemas.OpenPositionRequest) (*schemas.PositionResponse, error) {
	position, err := c.TradeService.Open(ctx, req.StockName, req.PurchaseRate, req.UnitsPurchased, req.PurchaseDate.ToTime())
	if err != nil {
		return nil, err
	}
	return positionResponseOf(position), nil
}

func (c *Controller) GetPosition(ctx context.Context, id string) (*schemas.PositionResponse, error) {
	position, err := c.TradeService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return positionResponseOf(position), nil
}

func (c *Controller) ListPositions(ctx context.Context) ([]schemas.PositionResponse, error) {
	positions, err := c.TradeService.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]schemas.PositionResponse, 0, len(positions))
	for i := range positions {
		responses = append(responses, *positionResponseOf(&positions[i]))
	}
	return responses, nil
}

func (c *Controller) SellPosition(ctx context.Context, id string, req *schemas.SellPositionRequest) (*schemas.PositionResponse, error) {
	position, err := c.TradeService.Sell(ctx, id, req.SellingPrice, req.Units, req.SellingDate.ToTime())
	if err != nil {
		return nil, err
	}
	return positionResponseOf(position), nil
}

func positionResponseOf(p *models.TradePosition) *schemas.PositionResponse {
	resp := &schemas.PositionResponse{
		ID:              p.ID,
		StockName:       p.StockName,
		PurchaseRate:    p.PurchaseRate,
		UnitsPurchased:  p.UnitsPurchased,
		PurchaseDate:    schemas.Date{Time: p.PurchaseDate},
		SellingPrice:    p.SellingPrice,
		UnitsSold:       p.UnitsSold,
		Status:          p.Status,
		RemainingUnits:  p.RemainingUnits(),
		RealizedReturn:  p.RealizedReturn(),
		TotalInvestment: p.TotalInvestment(),
	}
	if p.SellingDate != nil {
		resp.SellingDate = &schemas.Date{Time: *p.SellingDate}
	}
	return resp
}
