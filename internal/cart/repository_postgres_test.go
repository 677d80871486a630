package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var cartColumns = []string{"id", "user_id", "product_name", "product_price", "unit_price", "product_image",
	"product_category", "product_rating", "quantity", "created_at", "updated_at"}

func TestPostgresAdd_UsesUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(cartColumns).
		AddRow("c1", "u1", "Lamp", "₹499", int64(49900), "i", "home-kitchen", nil, 3, now, now)
	mock.ExpectQuery("INSERT INTO cart_items .* ON CONFLICT \\(user_id, product_name\\) DO UPDATE").
		WillReturnRows(rows)

	it, err := repo.Add(context.Background(), Item{ID: "new", UserID: "u1", ProductName: "Lamp", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID != "c1" || it.Quantity != 3 || it.ProductRating != nil {
		t.Fatalf("expected the coalesced row, got %+v", it)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(cartColumns).
		AddRow("c1", "u1", "Lamp", "₹499", int64(49900), "i", "home-kitchen", 4.5, 1, now, now).
		AddRow("c2", "u1", "Mat", "₹799", int64(79900), "i", "sports", nil, 2, now, now)
	mock.ExpectQuery("FROM cart_items WHERE user_id").WithArgs("u1").WillReturnRows(rows)

	items, err := repo.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].ProductRating == nil || *items[0].ProductRating != 4.5 {
		t.Fatalf("unexpected items %+v", items)
	}
	if Total(items) != 49900+2*79900 {
		t.Fatalf("unexpected total %d", Total(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateAndRemove_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE cart_items SET quantity").WillReturnRows(sqlmock.NewRows(cartColumns))
	if _, err := repo.UpdateQuantity(context.Background(), "u1", "zz", 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	mock.ExpectExec("DELETE FROM cart_items WHERE id").WithArgs("zz", "u1").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Remove(context.Background(), "u1", "zz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
