package wishlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var wishlistCols = []string{"id", "user_id", "product_name", "product_price", "unit_price", "product_image",
	"product_category", "product_rating", "created_at"}

func TestPostgresAdd_DuplicateReturnsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO wishlist_items .* DO NOTHING").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.Add(context.Background(), Item{ID: "w1", UserID: "u1", ProductName: "A"}); !errors.Is(err, ErrAlreadyInWishlist) {
		t.Fatalf("expected ErrAlreadyInWishlist, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresMoveAllToCart_Transaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM wishlist_items WHERE user_id = \\$1 ORDER BY created_at, id FOR UPDATE").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(wishlistCols).
			AddRow("w1", "u1", "A", "₹100", int64(10000), "i", "books", nil, now).
			AddRow("w2", "u1", "B", "₹200", int64(20000), "i", "books", 4.0, now))
	mock.ExpectExec("INSERT INTO cart_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cart_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM wishlist_items WHERE user_id = \\$1 AND id = ANY\\(\\$2\\)").
		WithArgs("u1", pq.Array([]string{"w1", "w2"})).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	res, err := repo.MoveAllToCart(context.Background(), "u1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Moved != 2 || res.Failed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresMoveAllToCart_RollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(wishlistCols).AddRow("w1", "u1", "A", "₹100", int64(10000), "i", "books", nil, now))
	mock.ExpectExec("INSERT INTO cart_items").WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	res, err := repo.MoveAllToCart(context.Background(), "u1", now)
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.Moved != 0 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
