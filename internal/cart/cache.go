package cart

import (
	"context"
	"errors"
)

// Cache holds each user's cart lines between mutations.
type Cache interface {
	Get(ctx context.Context, userID string) ([]Item, error)
	Set(ctx context.Context, userID string, items []Item) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")

// NoopCache always misses. It is used when no redis is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]Item, error) { return nil, ErrCacheMiss }
func (NoopCache) Set(context.Context, string, []Item) error   { return nil }
func (NoopCache) Delete(context.Context, string) error        { return nil }
