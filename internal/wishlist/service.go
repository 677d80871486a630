package wishlist

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/money"
)

// CartWriter is the part of cart.Service the wishlist needs.
type CartWriter interface {
	Add(ctx context.Context, userID string, in cart.AddInput) (cart.Item, error)
	Invalidate(userID string)
}

type Service struct {
	repo   Repository
	cart   CartWriter
	logger *log.Logger
	now    func() time.Time
}

func NewService(repo Repository, cart CartWriter, logger *log.Logger) *Service {
	return &Service{repo: repo, cart: cart, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.repo.List(ctx, userID)
}

// Add saves a product. A second add of the same name returns
// ErrAlreadyInWishlist and leaves the wishlist unchanged.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (Item, error) {
	c := in.cartInput()
	price, err := money.Parse(c.ProductPrice)
	if err != nil {
		return Item{}, err
	}
	return s.repo.Add(ctx, Item{
		ID:              uuid.NewString(),
		UserID:          userID,
		ProductName:     c.ProductName,
		ProductPrice:    c.ProductPrice,
		UnitPrice:       price,
		ProductImage:    c.ProductImage,
		ProductCategory: c.ProductCategory,
		ProductRating:   c.ProductRating,
		CreatedAt:       s.now().UTC(),
	})
}

func (s *Service) RemoveByName(ctx context.Context, userID, productName string) error {
	return s.repo.RemoveByName(ctx, userID, productName)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}

// MoveAllToCart moves every wishlist item into the cart. Stores that
// implement BulkMover do it atomically. Otherwise each item is added to the
// cart first and removed from the wishlist only after that add succeeded,
// so an interruption can leave an item in both places but never in neither.
func (s *Service) MoveAllToCart(ctx context.Context, userID string) (MoveResult, error) {
	if bm, ok := s.repo.(BulkMover); ok {
		res, err := bm.MoveAllToCart(ctx, userID, s.now().UTC())
		if err != nil {
			return res, err
		}
		s.cart.Invalidate(userID)
		return res, nil
	}

	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return MoveResult{}, err
	}
	var res MoveResult
	for _, it := range items {
		if _, err := s.cart.Add(ctx, userID, it.cartInput()); err != nil {
			s.logger.Printf("move %q to cart for %s: %v", it.ProductName, userID, err)
			res.Failed++
			continue
		}
		res.Moved++
		if err := s.repo.RemoveByName(ctx, userID, it.ProductName); err != nil {
			s.logger.Printf("remove %q from wishlist for %s after move: %v", it.ProductName, userID, err)
		}
	}
	return res, nil
}
