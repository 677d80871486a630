package order

import (
	"context"
	"sort"
	"sync"
)

// Repository persists placed orders.
type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(_ context.Context, o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
