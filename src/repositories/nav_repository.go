package repositories

import (
	"context"
	"errors"
	"time"

	"fundserver/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NAVRepository interface {
	Create(ctx context.Context, rec *models.NAVRecord) error
	// Latest returns the most recent record, ordered by date then insertion.
	// An empty ledger yields (nil, nil); the service layer decides defaults.
	Latest(ctx context.Context) (*models.NAVRecord, error)
	List(ctx context.Context) ([]models.NAVRecord, error)
	Delete(ctx context.Context, id string) error
}

type navRepo struct {
	db *pgxpool.Pool
}

func NewNAVRepository(db *pgxpool.Pool) NAVRepository {
	return &navRepo{db: db}
}

func (r *navRepo) Create(ctx context.Context, rec *models.NAVRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO nav_records (id, date, value, updated_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.Date, rec.Value, rec.UpdatedBy, rec.CreatedAt,
	)
	return err
}

func (r *navRepo) Latest(ctx context.Context) (*models.NAVRecord, error) {
	var rec models.NAVRecord
	err := r.db.QueryRow(ctx,
		`SELECT id, date, value, updated_by, created_at
		FROM nav_records
		ORDER BY date DESC, created_at DESC
		LIMIT 1`,
	).Scan(&rec.ID, &rec.Date, &rec.Value, &rec.UpdatedBy, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *navRepo) List(ctx context.Context) ([]models.NAVRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, date, value, updated_by, created_at
		FROM nav_records
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.NAVRecord
	for rows.Next() {
		var rec models.NAVRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Value, &rec.UpdatedBy, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *navRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM nav_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return &models.NotFoundError{Entity: "nav record", ID: id}
	}
	return nil
}
