package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"fundserver/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository owns every mutation of user balances. ApplyInvestment
// and ApplyWithdrawal execute the balance update, the ledger append and the
// portfolio totals delta as a single transactional unit, so no partial state
// can survive a failure.
type AccountRepository interface {
	Create(ctx context.Context, a *models.UserAccount) error
	GetByID(ctx context.Context, id string) (*models.UserAccount, error)
	ApplyInvestment(ctx context.Context, t *models.Transaction) (*models.UserAccount, error)
	ApplyWithdrawal(ctx context.Context, t *models.Transaction) (*models.UserAccount, error)
	// Delete removes an account whose unit balance is zero (within epsilon)
	// and takes its contribution figure out of the materialized totals.
	Delete(ctx context.Context, id string) error
}

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, a *models.UserAccount) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_accounts (id, units, invested_amount, created_at)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.Units, a.InvestedAmount, a.CreatedAt,
	)
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*models.UserAccount, error) {
	var a models.UserAccount
	err := r.db.QueryRow(ctx,
		`SELECT id, units, invested_amount, created_at FROM user_accounts WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Units, &a.InvestedAmount, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) ApplyInvestment(ctx context.Context, t *models.Transaction) (*models.UserAccount, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var a models.UserAccount
	err = tx.QueryRow(ctx,
		`UPDATE user_accounts
		SET units = units + $2, invested_amount = invested_amount + $3
		WHERE id = $1
		RETURNING id, units, invested_amount, created_at`,
		t.UserID, t.Units, t.Amount,
	).Scan(&a.ID, &a.Units, &a.InvestedAmount, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = &models.NotFoundError{Entity: "account", ID: t.UserID}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if err = insertTransaction(ctx, tx, t); err != nil {
		return nil, err
	}
	if err = applyTotalsDelta(ctx, tx, t.Units, t.Amount); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) ApplyWithdrawal(ctx context.Context, t *models.Transaction) (*models.UserAccount, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// The guard rides on the UPDATE itself, so two concurrent withdrawals
	// can never both pass a stale balance check.
	var a models.UserAccount
	err = tx.QueryRow(ctx,
		`UPDATE user_accounts
		SET units = units - $2
		WHERE id = $1 AND units + $3 >= $2
		RETURNING id, units, invested_amount, created_at`,
		t.UserID, t.Units, models.UnitsEpsilon,
	).Scan(&a.ID, &a.Units, &a.InvestedAmount, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = r.explainWithdrawalFailure(ctx, t)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if err = insertTransaction(ctx, tx, t); err != nil {
		return nil, err
	}
	if err = applyTotalsDelta(ctx, tx, -t.Units, 0); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

// explainWithdrawalFailure distinguishes a missing account from an
// insufficient balance after the conditional update matched no row.
func (r *accountRepo) explainWithdrawalFailure(ctx context.Context, t *models.Transaction) error {
	var available float64
	err := r.db.QueryRow(ctx,
		`SELECT units FROM user_accounts WHERE id = $1`, t.UserID,
	).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.NotFoundError{Entity: "account", ID: t.UserID}
	}
	if err != nil {
		return err
	}
	return &models.InsufficientUnitsError{Requested: t.Units, Available: available}
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var units, invested float64
	err = tx.QueryRow(ctx,
		`SELECT units, invested_amount FROM user_accounts WHERE id = $1 FOR UPDATE`, id,
	).Scan(&units, &invested)
	if errors.Is(err, pgx.ErrNoRows) {
		err = &models.NotFoundError{Entity: "account", ID: id}
		return err
	}
	if err != nil {
		return err
	}
	if math.Abs(units) > models.UnitsEpsilon {
		err = &models.ValidationError{
			Field:   "units",
			Message: fmt.Sprintf("account still holds %g units", units),
		}
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM user_accounts WHERE id = $1`, id); err != nil {
		return err
	}
	if err = applyTotalsDelta(ctx, tx, -units, -invested); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func applyTotalsDelta(ctx context.Context, tx pgx.Tx, unitsDelta, investmentDelta float64) error {
	_, err := tx.Exec(ctx,
		`UPDATE portfolio_totals
		SET total_units = total_units + $1,
			total_investment = total_investment + $2,
			updated_at = now()`,
		unitsDelta, investmentDelta,
	)
	return err
}
