package order

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/money"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartStore is the part of cart.Service checkout needs.
type CartStore interface {
	List(ctx context.Context, userID string) ([]cart.Item, error)
	Remove(ctx context.Context, userID, id string) error
}

// Service places orders. There is no payment step; an order is placed as
// soon as it is stored.
type Service struct {
	repo   Repository
	carts  CartStore
	logger *log.Logger
	now    func() time.Time
}

func NewService(repo Repository, carts CartStore, logger *log.Logger) *Service {
	return &Service{repo: repo, carts: carts, logger: logger, now: time.Now}
}

// PlaceFromCart snapshots the user's cart into an order and then removes the
// ordered lines. Lines added after the snapshot stay in the cart. A failed
// removal is logged; the order stands.
func (s *Service) PlaceFromCart(ctx context.Context, userID string) (Order, error) {
	items, err := s.carts.List(ctx, userID)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, lineFromCart(it))
	}

	placed, err := s.place(ctx, userID, SourceCart, lines)
	if err != nil {
		return Order{}, err
	}
	for _, it := range items {
		if err := s.carts.Remove(ctx, userID, it.ID); err != nil && !errors.Is(err, cart.ErrNotFound) {
			s.logger.Printf("remove %q from cart after order %s: %v", it.ProductName, placed.ID, err)
		}
	}
	return placed, nil
}

// PlaceBuyNow orders a single product without touching the cart.
func (s *Service) PlaceBuyNow(ctx context.Context, userID string, in cart.AddInput) (Order, error) {
	price, err := money.Parse(in.ProductPrice)
	if err != nil {
		return Order{}, err
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	return s.place(ctx, userID, SourceBuyNow, []Line{{
		ProductName:     strings.TrimSpace(in.ProductName),
		ProductPrice:    in.ProductPrice,
		UnitPrice:       price,
		ProductImage:    in.ProductImage,
		ProductCategory: in.ProductCategory,
		Quantity:        qty,
	}})
}

func (s *Service) place(ctx context.Context, userID, source string, lines []Line) (Order, error) {
	o, err := s.repo.Create(ctx, Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Source:    source,
		Items:     lines,
		Total:     total(lines),
		Status:    StatusPlaced,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return Order{}, err
	}
	return withDisplay(o), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i] = withDisplay(orders[i])
	}
	return orders, nil
}
