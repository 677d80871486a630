package cart

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound        = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Repository stores cart lines. Add must coalesce on (UserID, ProductName)
// atomically: the stored quantity grows by item.Quantity when the line
// already exists.
type Repository interface {
	List(ctx context.Context, userID string) ([]Item, error)
	Add(ctx context.Context, item Item) (Item, error)
	UpdateQuantity(ctx context.Context, userID, id string, qty int) (Item, error)
	Remove(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.Mutex
	items map[string]Item
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]Item)}
}

func (r *InMemoryRepository) List(_ context.Context, userID string) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) Add(_ context.Context, item Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.items {
		if it.UserID == item.UserID && it.ProductName == item.ProductName {
			it.Quantity += item.Quantity
			it.ProductPrice = item.ProductPrice
			it.UnitPrice = item.UnitPrice
			it.ProductImage = item.ProductImage
			it.ProductCategory = item.ProductCategory
			it.ProductRating = item.ProductRating
			it.UpdatedAt = item.UpdatedAt
			r.items[id] = it
			return it, nil
		}
	}
	r.items[item.ID] = item
	return item, nil
}

func (r *InMemoryRepository) UpdateQuantity(_ context.Context, userID, id string, qty int) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.UserID != userID {
		return Item{}, ErrNotFound
	}
	it.Quantity = qty
	r.items[id] = it
	return it, nil
}

func (r *InMemoryRepository) Remove(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.items {
		if it.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}
