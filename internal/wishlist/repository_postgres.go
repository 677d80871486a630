package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	wishlistColumns = `id, user_id, product_name, product_price, unit_price, product_image,
		product_category, product_rating, created_at`

	listWishlistQuery      = `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE user_id = $1 ORDER BY created_at, id`
	lockWishlistQuery      = listWishlistQuery + ` FOR UPDATE`
	insertWishlistQuery    = `
		INSERT INTO wishlist_items (` + wishlistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, product_name) DO NOTHING
		RETURNING id`
	removeWishlistQuery = `DELETE FROM wishlist_items WHERE user_id = $1 AND product_name = $2`
	clearWishlistQuery  = `DELETE FROM wishlist_items WHERE user_id = $1`
	deleteMovedQuery    = `DELETE FROM wishlist_items WHERE user_id = $1 AND id = ANY($2)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listItems(ctx context.Context, q queryer, query, userID string) ([]Item, error) {
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		var (
			it     Item
			rating sql.NullFloat64
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductName, &it.ProductPrice, &it.UnitPrice,
			&it.ProductImage, &it.ProductCategory, &rating, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		if rating.Valid {
			it.ProductRating = &rating.Float64
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Item, error) {
	return listItems(ctx, r.db, listWishlistQuery, userID)
}

func (r *PostgresRepository) Add(ctx context.Context, item Item) (Item, error) {
	var rating sql.NullFloat64
	if item.ProductRating != nil {
		rating = sql.NullFloat64{Float64: *item.ProductRating, Valid: true}
	}
	var id string
	err := r.db.QueryRowContext(ctx, insertWishlistQuery,
		item.ID, item.UserID, item.ProductName, item.ProductPrice, item.UnitPrice,
		item.ProductImage, item.ProductCategory, rating, item.CreatedAt).Scan(&id)
	if err != nil {
		// DO NOTHING returns no row on a duplicate
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrAlreadyInWishlist
		}
		return Item{}, fmt.Errorf("insert wishlist item: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) RemoveByName(ctx context.Context, userID, productName string) error {
	res, err := r.db.ExecContext(ctx, removeWishlistQuery, userID, productName)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, clearWishlistQuery, userID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}

// MoveAllToCart upserts every wishlist row into cart_items and removes the
// moved rows in one transaction. Either all items move or none do.
func (r *PostgresRepository) MoveAllToCart(ctx context.Context, userID string, now time.Time) (MoveResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return MoveResult{}, fmt.Errorf("begin move: %w", err)
	}
	defer tx.Rollback()

	items, err := listItems(ctx, tx, lockWishlistQuery, userID)
	if err != nil {
		return MoveResult{}, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
		line := cart.Item{
			ID:              uuid.NewString(),
			UserID:          userID,
			ProductName:     it.ProductName,
			ProductPrice:    it.ProductPrice,
			UnitPrice:       it.UnitPrice,
			ProductImage:    it.ProductImage,
			ProductCategory: it.ProductCategory,
			ProductRating:   it.ProductRating,
			Quantity:        1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if _, err := tx.ExecContext(ctx, cart.UpsertItemQuery, cart.UpsertArgs(line)...); err != nil {
			return MoveResult{Failed: len(items)}, fmt.Errorf("move %q: %w", it.ProductName, err)
		}
	}
	// Only the locked rows; an item saved after the SELECT stays put.
	if _, err := tx.ExecContext(ctx, deleteMovedQuery, userID, pq.Array(ids)); err != nil {
		return MoveResult{Failed: len(items)}, fmt.Errorf("remove moved items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return MoveResult{Failed: len(items)}, fmt.Errorf("commit move: %w", err)
	}
	return MoveResult{Moved: len(items)}, nil
}
