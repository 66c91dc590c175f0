package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fundserver/src/models"
	"fundserver/src/repositories"

	"github.com/sethvargo/go-retry"
)

type TradeServiceI interface {
	Open(ctx context.Context, stockName string, purchaseRate float64, unitsPurchased int, purchaseDate time.Time) (*models.TradePosition, error)
	Get(ctx context.Context, id string) (*models.TradePosition, error)
	List(ctx context.Context) ([]models.TradePosition, error)
	Sell(ctx context.Context, id string, sellingPrice float64, units int, sellingDate time.Time) (*models.TradePosition, error)
}

// TradeService tracks stock positions through partial liquidation. Sells use
// an optimistic version check; a lost race is retried a few times before the
// conflict is surfaced to the caller.
type TradeService struct {
	tradeRepo repositories.TradeRepository
}

const sellRetryLimit = 3

func NewTradeService(tradeRepo repositories.TradeRepository) *TradeService {
	return &TradeService{tradeRepo: tradeRepo}
}

func (s *TradeService) Open(ctx context.Context, stockName string, purchaseRate float64, unitsPurchased int, purchaseDate time.Time) (*models.TradePosition, error) {
	if stockName == "" {
		return nil, &models.ValidationError{Field: "stockName", Message: "stock name is required"}
	}
	if purchaseRate <= 0 {
		return nil, &models.ValidationError{
			Field:   "purchaseRate",
			Message: fmt.Sprintf("purchase rate must be positive, got %g", purchaseRate),
		}
	}
	if unitsPurchased <= 0 {
		return nil, &models.ValidationError{
			Field:   "unitsPurchased",
			Message: fmt.Sprintf("units purchased must be positive, got %d", unitsPurchased),
		}
	}
	if purchaseDate.IsZero() {
		return nil, &models.ValidationError{Field: "purchaseDate", Message: "purchase date is required"}
	}

	position := &models.TradePosition{
		StockName:      stockName,
		PurchaseRate:   purchaseRate,
		UnitsPurchased: unitsPurchased,
		PurchaseDate:   purchaseDate,
		Status:         models.PositionActive,
	}
	if err := s.tradeRepo.Create(ctx, position); err != nil {
		return nil, err
	}
	return position, nil
}

func (s *TradeService) Get(ctx context.Context, id string) (*models.TradePosition, error) {
	return s.tradeRepo.GetByID(ctx, id)
}

func (s *TradeService) List(ctx context.Context) ([]models.TradePosition, error) {
	return s.tradeRepo.List(ctx)
}

// Sell records a partial or complete liquidation. SellingPrice and
// SellingDate always hold the latest sell; a second partial sell overwrites
// them rather than averaging.
func (s *TradeService) Sell(ctx context.Context, id string, sellingPrice float64, units int, sellingDate time.Time) (*models.TradePosition, error) {
	if sellingPrice <= 0 {
		return nil, &models.ValidationError{
			Field:   "sellingPrice",
			Message: fmt.Sprintf("selling price must be positive, got %g", sellingPrice),
		}
	}
	if units <= 0 {
		return nil, &models.ValidationError{
			Field:   "units",
			Message: fmt.Sprintf("units to sell must be positive, got %d", units),
		}
	}
	if sellingDate.IsZero() {
		return nil, &models.ValidationError{Field: "sellingDate", Message: "selling date is required"}
	}

	var position *models.TradePosition
	backoff := retry.WithMaxRetries(sellRetryLimit, retry.NewFibonacci(5*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		current, err := s.tradeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		remaining := current.RemainingUnits()
		if units > remaining {
			return &models.InsufficientUnitsError{
				Requested: float64(units),
				Available: float64(remaining),
			}
		}

		current.UnitsSold += units
		current.SellingPrice = &sellingPrice
		current.SellingDate = &sellingDate
		current.Status = models.PositionStatusFor(current.UnitsSold, current.UnitsPurchased)

		if err := s.tradeRepo.ApplySale(ctx, current); err != nil {
			var conflict *models.ConflictError
			if errors.As(err, &conflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		position = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return position, nil
}
