package cart

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	*InMemoryRepository
	lists atomic.Int32
}

func (r *countingRepo) List(ctx context.Context, userID string) ([]Item, error) {
	r.lists.Add(1)
	return r.InMemoryRepository.List(ctx, userID)
}

func newCachedService(t *testing.T) (*Service, *countingRepo) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := &countingRepo{InMemoryRepository: NewInMemoryRepository()}
	return NewService(repo, NewRedisCache(client), log.New(io.Discard, "", 0)), repo
}

func lampInput() AddInput {
	return AddInput{ProductName: "Lamp", ProductPrice: "₹499", ProductImage: "i", ProductCategory: "home-kitchen"}
}

func TestList_ServedFromCacheUntilMutation(t *testing.T) {
	svc, repo := newCachedService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", lampInput())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		items, err := svc.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 1)
	}
	assert.Equal(t, int32(1), repo.lists.Load())

	_, err = svc.Add(ctx, "u1", lampInput())
	require.NoError(t, err)
	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity, "mutation must invalidate the cached cart")
	assert.Equal(t, int32(2), repo.lists.Load())
}

func TestAdd_ConcurrentCoalesces(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, log.New(io.Discard, "", 0))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Add(ctx, "u1", lampInput())
		}()
	}
	wg.Wait()

	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 20, items[0].Quantity)
	assert.Equal(t, int64(20*49900), int64(Total(items)))
	assert.Equal(t, 20, Count(items))
}

func TestUpdateQuantity_RejectsBelowOne(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, log.New(io.Discard, "", 0))
	item, err := svc.Add(context.Background(), "u1", lampInput())
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(context.Background(), "u1", item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

type gatedRepo struct {
	*InMemoryRepository
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
}

// List holds its first caller after reading, so a write can land in between.
func (r *gatedRepo) List(ctx context.Context, userID string) ([]Item, error) {
	items, err := r.InMemoryRepository.List(ctx, userID)
	r.once.Do(func() {
		close(r.entered)
		<-r.gate
	})
	return items, err
}

func TestList_ReadStartedBeforeWriteIsNotReused(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := &gatedRepo{InMemoryRepository: NewInMemoryRepository(), entered: make(chan struct{}), gate: make(chan struct{})}
	svc := NewService(repo, NewRedisCache(client), log.New(io.Discard, "", 0))
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", lampInput())
	require.NoError(t, err)

	stale := make(chan []Item)
	go func() {
		items, _ := svc.List(ctx, "u1")
		stale <- items
	}()
	<-repo.entered

	_, err = svc.Add(ctx, "u1", lampInput())
	require.NoError(t, err)
	fresh, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, fresh[0].Quantity)

	close(repo.gate)
	assert.Equal(t, 1, (<-stale)[0].Quantity)

	cached, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, cached[0].Quantity, "the slow read must not overwrite the cache")
}
