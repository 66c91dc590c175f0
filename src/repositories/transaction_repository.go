package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fundserver/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionFilter narrows the ledger listing. Zero values mean "no
// constraint" for that field.
type TransactionFilter struct {
	UserID string
	Type   string
	From   time.Time
	To     time.Time
}

type Page struct {
	Limit   int
	Offset  int
	SortAsc bool
}

type TransactionRepository interface {
	Create(ctx context.Context, t *models.Transaction, tx pgx.Tx) error
	// List returns the page of matching transactions plus the total match
	// count independent of the page window.
	List(ctx context.Context, filter TransactionFilter, page Page) ([]models.Transaction, int, error)
}

type transactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, t *models.Transaction, tx pgx.Tx) error {
	var err error
	if tx == nil {
		// If no transaction is provided, create a new one
		tx, err = r.db.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback(ctx)
			}
		}()

		if err = insertTransaction(ctx, tx, t); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	return insertTransaction(ctx, tx, t)
}

func insertTransaction(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO transactions (id, user_id, type, amount, units, nav_value, status, processed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.UserID, t.Type, t.Amount, t.Units, t.NAVValue, t.Status, t.ProcessedBy, t.CreatedAt,
	)
	return err
}

func (r *transactionRepo) List(ctx context.Context, filter TransactionFilter, page Page) ([]models.Transaction, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY created_at DESC"
	if page.SortAsc {
		order = " ORDER BY created_at ASC"
	}

	args = append(args, page.Limit)
	limit := fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, page.Offset)
	offset := fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, units, nav_value, status, processed_by, created_at
		FROM transactions`+where+order+limit+offset,
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Units, &t.NAVValue, &t.Status, &t.ProcessedBy, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}
