package cart

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/money"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo   Repository
	cache  Cache
	logger *log.Logger
	sfg    singleflight.Group
	now    func() time.Time

	// gens counts invalidations per user. A read that started before a
	// write must neither be joined by later reads nor fill the cache.
	genMu sync.Mutex
	gens  map[string]uint64
}

func NewService(repo Repository, cache Cache, logger *log.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now, gens: map[string]uint64{}}
}

func (s *Service) generation(userID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[userID]
}

// fillCache stores items unless an invalidation happened since gen was read.
// The check and the write share genMu so Invalidate cannot slip between them.
func (s *Service) fillCache(ctx context.Context, userID string, gen uint64, items []Item) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.gens[userID] != gen {
		return
	}
	if err := s.cache.Set(ctx, userID, items); err != nil {
		s.logger.Printf("cache set error: %v", err)
	}
}

// List returns the user's cart. Concurrent misses for the same user share
// one repository read.
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	gen := s.generation(userID)
	v, err, _ := s.sfg.Do(userID+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		items, err := s.cache.Get(ctx, userID)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Printf("cache get error: %v", err)
		}

		items, err = s.repo.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.fillCache(ctx, userID, gen, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Item), nil
}

// Add merges in into the user's cart. The unit price is parsed from the
// display string so the two never disagree.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (Item, error) {
	price, err := money.Parse(in.ProductPrice)
	if err != nil {
		return Item{}, err
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	now := s.now().UTC()
	item, err := s.repo.Add(ctx, Item{
		ID:              uuid.NewString(),
		UserID:          userID,
		ProductName:     strings.TrimSpace(in.ProductName),
		ProductPrice:    in.ProductPrice,
		UnitPrice:       price,
		ProductImage:    in.ProductImage,
		ProductCategory: in.ProductCategory,
		ProductRating:   in.ProductRating,
		Quantity:        qty,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Item{}, err
	}
	s.Invalidate(userID)
	return item, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, id string, qty int) (Item, error) {
	if qty < 1 {
		return Item{}, ErrInvalidQuantity
	}
	item, err := s.repo.UpdateQuantity(ctx, userID, id, qty)
	if err != nil {
		return Item{}, err
	}
	s.Invalidate(userID)
	return item, nil
}

func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if err := s.repo.Remove(ctx, userID, id); err != nil {
		return err
	}
	s.Invalidate(userID)
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	s.Invalidate(userID)
	return nil
}

// Invalidate drops the cached cart. Other packages that write cart rows
// directly call it after committing.
func (s *Service) Invalidate(userID string) {
	s.genMu.Lock()
	s.gens[userID]++
	s.genMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Printf("cache invalidate error: %v", err)
	}
}
