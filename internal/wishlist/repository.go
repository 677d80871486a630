package wishlist

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound          = errors.New("wishlist item not found")
	ErrAlreadyInWishlist = errors.New("item already in wishlist")
)

type Repository interface {
	List(ctx context.Context, userID string) ([]Item, error)
	Add(ctx context.Context, item Item) (Item, error)
	RemoveByName(ctx context.Context, userID, productName string) error
	Clear(ctx context.Context, userID string) error
}

// BulkMover is implemented by stores that can move a whole wishlist into
// the cart in one transaction.
type BulkMover interface {
	MoveAllToCart(ctx context.Context, userID string, now time.Time) (MoveResult, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Item
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) List(_ context.Context, userID string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) Add(_ context.Context, item Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.UserID == item.UserID && it.ProductName == item.ProductName {
			return Item{}, ErrAlreadyInWishlist
		}
	}
	r.items = append(r.items, item)
	return item, nil
}

func (r *InMemoryRepository) RemoveByName(_ context.Context, userID, productName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.UserID == userID && it.ProductName == productName {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, it := range r.items {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	r.items = kept
	return nil
}
