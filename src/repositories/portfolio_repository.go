package repositories

import (
	"context"

	"fundserver/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PortfolioRepository interface {
	GetTotals(ctx context.Context) (*models.PortfolioTotals, error)
	// RecomputeFromAccounts rebuilds the materialized totals by full scan,
	// inside one transaction so readers never observe a half-written row.
	RecomputeFromAccounts(ctx context.Context) (*models.PortfolioTotals, error)
	// TradeTotals is the trade-ledger aggregate view, computed by scan:
	// remaining stock units plus original cost of the not-fully-sold positions.
	TradeTotals(ctx context.Context) (*models.PortfolioTotals, error)
}

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) PortfolioRepository {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) GetTotals(ctx context.Context) (*models.PortfolioTotals, error) {
	var t models.PortfolioTotals
	err := r.db.QueryRow(ctx,
		`SELECT total_units, total_investment, updated_at FROM portfolio_totals`,
	).Scan(&t.TotalUnits, &t.TotalInvestment, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *portfolioRepo) RecomputeFromAccounts(ctx context.Context) (*models.PortfolioTotals, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var t models.PortfolioTotals
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(units), 0), COALESCE(SUM(invested_amount), 0)
		FROM user_accounts`,
	).Scan(&t.TotalUnits, &t.TotalInvestment)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`UPDATE portfolio_totals
		SET total_units = $1, total_investment = $2, updated_at = now()
		RETURNING updated_at`,
		t.TotalUnits, t.TotalInvestment,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *portfolioRepo) TradeTotals(ctx context.Context) (*models.PortfolioTotals, error) {
	var t models.PortfolioTotals
	err := r.db.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(units_purchased - units_sold), 0)::float8,
			COALESCE(SUM(CASE WHEN status <> 'sold' THEN units_purchased * purchase_rate ELSE 0 END), 0)::float8,
			now()
		FROM trade_positions`,
	).Scan(&t.TotalUnits, &t.TotalInvestment, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
