package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectProductColumns = `
		SELECT id, name, description, price, original_price, discount_percentage,
		       category, stock, specifications, tags, images, seller_id, created_at, updated_at
		FROM products`

	listProductsQuery = selectProductColumns + `
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR seller_id = $3)
		ORDER BY created_at DESC`

	getProductQuery = selectProductColumns + ` WHERE id = $1`

	insertProductQuery = `
		INSERT INTO products (id, name, description, price, original_price, discount_percentage,
		                      category, stock, specifications, tags, images, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	updateProductQuery = `
		UPDATE products
		SET name = $2, description = $3, price = $4, original_price = $5, discount_percentage = $6,
		    category = $7, stock = $8, specifications = $9, tags = $10, images = $11, updated_at = $12
		WHERE id = $1`

	deleteProductQuery = `DELETE FROM products WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p     Product
		specs []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.DiscountPercentage,
		&p.Category, &p.Stock, &specs, pq.Array(&p.Tags), pq.Array(&p.Images), &p.SellerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specifications); err != nil {
			return Product{}, fmt.Errorf("decode specifications: %w", err)
		}
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery, f.Category, f.Query, f.SellerID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return Product{}, err
	}
	_, err = r.db.ExecContext(ctx, insertProductQuery,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.DiscountPercentage,
		p.Category, p.Stock, specs, pq.Array(p.Tags), pq.Array(p.Images), p.SellerID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return Product{}, err
	}
	res, err := r.db.ExecContext(ctx, updateProductQuery,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.DiscountPercentage,
		p.Category, p.Stock, specs, pq.Array(p.Tags), pq.Array(p.Images), p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
