package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/intellibazar/intellibazar/internal/database/mongotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoRepository_DuplicateAndRemove(t *testing.T) {
	repo := NewMongoRepository(mongotest.Start(t))
	ctx := context.Background()

	item := Item{ID: "w1", UserID: "u1", ProductName: "Atlas", ProductPrice: "₹499", UnitPrice: 49900, CreatedAt: time.Now().UTC()}
	_, err := repo.Add(ctx, item)
	require.NoError(t, err)

	item.ID = "w2"
	_, err = repo.Add(ctx, item)
	assert.ErrorIs(t, err, ErrAlreadyInWishlist)

	items, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.RemoveByName(ctx, "u1", "Atlas"))
	assert.ErrorIs(t, repo.RemoveByName(ctx, "u1", "Atlas"), ErrNotFound)
}
