package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/intellibazar/intellibazar/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectUserColumns = `SELECT id, name, email, password_hash, role, created_at, updated_at FROM users`

	getUserByIDQuery    = selectUserColumns + ` WHERE id = $1`
	getUserByEmailQuery = selectUserColumns + ` WHERE lower(email) = lower($1)`
	insertUserQuery     = `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (User, error) {
	return r.getOne(ctx, getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, getUserByEmailQuery, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	_, err := r.db.ExecContext(ctx, insertUserQuery,
		u.ID, u.Name, u.Email, u.Password, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}
