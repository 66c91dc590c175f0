package services

import (
	"context"
	"fmt"
	"math"

	"fundserver/src/models"
	"fundserver/src/repositories"

	"github.com/sirupsen/logrus"
)

const (
	ViewAccounts = "accounts"
	ViewTrades   = "trades"
)

type PortfolioServiceI interface {
	Totals(ctx context.Context, view string) (*models.PortfolioTotals, error)
	Recompute(ctx context.Context) (*models.PortfolioTotals, error)
	Reconcile(ctx context.Context) error
}

// PortfolioService exposes the fund-wide aggregates. The accounts view is
// materialized and kept in step incrementally by the account repository; the
// trades view is computed by scan on demand.
type PortfolioService struct {
	portfolioRepo repositories.PortfolioRepository
	logger        *logrus.Logger
}

func NewPortfolioService(portfolioRepo repositories.PortfolioRepository, logger *logrus.Logger) *PortfolioService {
	return &PortfolioService{portfolioRepo: portfolioRepo, logger: logger}
}

func (s *PortfolioService) Totals(ctx context.Context, view string) (*models.PortfolioTotals, error) {
	switch view {
	case "", ViewAccounts:
		return s.portfolioRepo.GetTotals(ctx)
	case ViewTrades:
		return s.portfolioRepo.TradeTotals(ctx)
	default:
		return nil, &models.ValidationError{
			Field:   "view",
			Message: fmt.Sprintf("unknown view %q, expected %q or %q", view, ViewAccounts, ViewTrades),
		}
	}
}

// Recompute rebuilds the materialized accounts aggregate by full scan.
func (s *PortfolioService) Recompute(ctx context.Context) (*models.PortfolioTotals, error) {
	return s.portfolioRepo.RecomputeFromAccounts(ctx)
}

// Reconcile recomputes the totals and logs any drift it corrected. Drift
// means an account mutation escaped its totals delta, which is a defect
// worth surfacing even though recompute repairs it.
func (s *PortfolioService) Reconcile(ctx context.Context) error {
	before, err := s.portfolioRepo.GetTotals(ctx)
	if err != nil {
		return err
	}
	after, err := s.portfolioRepo.RecomputeFromAccounts(ctx)
	if err != nil {
		return err
	}

	unitsDrift := after.TotalUnits - before.TotalUnits
	investmentDrift := after.TotalInvestment - before.TotalInvestment
	if math.Abs(unitsDrift) > models.UnitsEpsilon || math.Abs(investmentDrift) > models.UnitsEpsilon {
		s.logger.WithFields(logrus.Fields{
			"unitsDrift":      unitsDrift,
			"investmentDrift": investmentDrift,
		}).Warn("portfolio totals drift corrected")
		return nil
	}
	s.logger.Debug("portfolio totals reconciled, no drift")
	return nil
}
