package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (id, user_id, source, items, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	listOrdersQuery = `
		SELECT id, user_id, source, items, total, status, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o Order) (Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, err
	}
	if _, err := r.db.ExecContext(ctx, insertOrderQuery,
		o.ID, o.UserID, o.Source, items, o.Total, o.Status, o.CreatedAt); err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		var (
			o     Order
			items []byte
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Source, &items, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
