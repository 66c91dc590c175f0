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

type TradeRepository interface {
	Create(ctx context.Context, p *models.TradePosition) error
	GetByID(ctx context.Context, id string) (*models.TradePosition, error)
	List(ctx context.Context) ([]models.TradePosition, error)
	// ApplySale persists a sell computed against p.Version. A version
	// mismatch means a concurrent sell won the race and yields ConflictError.
	ApplySale(ctx context.Context, p *models.TradePosition) error
}

type tradeRepo struct {
	db *pgxpool.Pool
}

func NewTradeRepository(db *pgxpool.Pool) TradeRepository {
	return &tradeRepo{db: db}
}

func (r *tradeRepo) Create(ctx context.Context, p *models.TradePosition) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO trade_positions
			(id, stock_name, purchase_rate, units_purchased, purchase_date,
			selling_price, units_sold, selling_date, status, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.StockName, p.PurchaseRate, p.UnitsPurchased, p.PurchaseDate,
		p.SellingPrice, p.UnitsSold, p.SellingDate, p.Status, p.Version, p.CreatedAt,
	)
	return err
}

func (r *tradeRepo) GetByID(ctx context.Context, id string) (*models.TradePosition, error) {
	var p models.TradePosition
	err := r.db.QueryRow(ctx,
		`SELECT id, stock_name, purchase_rate, units_purchased, purchase_date,
			selling_price, units_sold, selling_date, status, version, created_at
		FROM trade_positions WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.StockName, &p.PurchaseRate, &p.UnitsPurchased, &p.PurchaseDate,
		&p.SellingPrice, &p.UnitsSold, &p.SellingDate, &p.Status, &p.Version, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "position", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *tradeRepo) List(ctx context.Context) ([]models.TradePosition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, stock_name, purchase_rate, units_purchased, purchase_date,
			selling_price, units_sold, selling_date, status, version, created_at
		FROM trade_positions ORDER BY purchase_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []models.TradePosition
	for rows.Next() {
		var p models.TradePosition
		if err := rows.Scan(&p.ID, &p.StockName, &p.PurchaseRate, &p.UnitsPurchased, &p.PurchaseDate,
			&p.SellingPrice, &p.UnitsSold, &p.SellingDate, &p.Status, &p.Version, &p.CreatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (r *tradeRepo) ApplySale(ctx context.Context, p *models.TradePosition) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE trade_positions
		SET units_sold = $2, selling_price = $3, selling_date = $4, status = $5,
			version = version + 1
		WHERE id = $1 AND version = $6`,
		p.ID, p.UnitsSold, p.SellingPrice, p.SellingDate, p.Status, p.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM trade_positions WHERE id = $1)`, p.ID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return &models.NotFoundError{Entity: "position", ID: p.ID}
		}
		return &models.ConflictError{Entity: "position", ID: p.ID}
	}
	p.Version++
	return nil
}
