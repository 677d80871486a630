package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	itemColumns = `id, user_id, product_name, product_price, unit_price, product_image,
		product_category, product_rating, quantity, created_at, updated_at`

	listItemsQuery = `SELECT ` + itemColumns + ` FROM cart_items WHERE user_id = $1 ORDER BY created_at, id`

	// UpsertItemQuery coalesces on (user_id, product_name). It is shared with
	// the wishlist move so both paths merge quantities the same way.
	UpsertItemQuery = `
		INSERT INTO cart_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, product_name) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    product_price = EXCLUDED.product_price,
		    unit_price = EXCLUDED.unit_price,
		    product_image = EXCLUDED.product_image,
		    product_category = EXCLUDED.product_category,
		    product_rating = EXCLUDED.product_rating,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + itemColumns

	updateQuantityQuery = `
		UPDATE cart_items SET quantity = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + itemColumns

	removeItemQuery = `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`
	clearCartQuery  = `DELETE FROM cart_items WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one row selected with the cart item column list.
func scanItem(row rowScanner) (Item, error) {
	var (
		it     Item
		rating sql.NullFloat64
	)
	err := row.Scan(&it.ID, &it.UserID, &it.ProductName, &it.ProductPrice, &it.UnitPrice, &it.ProductImage,
		&it.ProductCategory, &rating, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return Item{}, err
	}
	if rating.Valid {
		it.ProductRating = &rating.Float64
	}
	return it, nil
}

// UpsertArgs orders item fields for UpsertItemQuery.
func UpsertArgs(it Item) []any {
	var rating sql.NullFloat64
	if it.ProductRating != nil {
		rating = sql.NullFloat64{Float64: *it.ProductRating, Valid: true}
	}
	return []any{it.ID, it.UserID, it.ProductName, it.ProductPrice, it.UnitPrice, it.ProductImage,
		it.ProductCategory, rating, it.Quantity, it.CreatedAt, it.UpdatedAt}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, listItemsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Add(ctx context.Context, item Item) (Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, UpsertItemQuery, UpsertArgs(item)...))
	if err != nil {
		return Item{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return it, nil
}

func (r *PostgresRepository) UpdateQuantity(ctx context.Context, userID, id string, qty int) (Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, updateQuantityQuery, id, userID, qty, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("update cart item: %w", err)
	}
	return it, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, removeItemQuery, id, userID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, clearCartQuery, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
