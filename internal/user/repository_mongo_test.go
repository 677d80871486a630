package user

import (
	"context"
	"testing"
	"time"

	"github.com/intellibazar/intellibazar/internal/database/mongotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoRepository_CreateAndLookup(t *testing.T) {
	repo := NewMongoRepository(mongotest.Start(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	created, err := repo.Create(ctx, User{ID: "u-1", Name: "Asha", Email: "asha@example.com", Password: "hash", Role: "customer", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "u-1", created.ID)

	got, err := repo.GetByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "hash", got.Password)

	_, err = repo.Create(ctx, User{ID: "u-2", Email: "asha@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
