package storefront

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"message":"upstream down"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	r, _ := jsonRequest(http.MethodGet, "/api/cart", "tok", nil)
	for range 5 {
		_, err := c.do(t.Context(), r, nil)
		var ae *APIError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "upstream down", ae.Message)
	}

	_, err := c.do(t.Context(), r, nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int64(5), hits.Load())
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Cart item not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	r, _ := jsonRequest(http.MethodDelete, "/api/cart/x", "tok", nil)
	for range 10 {
		_, err := c.do(t.Context(), r, nil)
		assert.Equal(t, http.StatusNotFound, StatusOf(err))
	}
}

func TestShop_SidebarsFollowMutations(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "sidebar@example.com")
	ctx := t.Context()

	bad := shirt()
	bad.Category = ""
	assert.False(t, h.shop.AddToCart(ctx, bad))
	assert.False(t, h.shop.CartSidebar.IsOpen())

	assert.True(t, h.shop.AddToCart(ctx, shirt()))
	assert.True(t, h.shop.CartSidebar.IsOpen())
	assert.True(t, h.shop.AddToWishlist(ctx, lamp()))
	assert.True(t, h.shop.WishlistSidebar.IsOpen())

	h.shop.Logout()
	assert.False(t, h.shop.CartSidebar.IsOpen())
	assert.Empty(t, h.shop.Cart.Items())
	assert.Empty(t, h.shop.Wishlist.Items())
}

func TestShop_LoginLoadsExistingState(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "return@example.com")
	ctx := t.Context()
	require.True(t, h.shop.Cart.Add(ctx, shirt()))
	require.True(t, h.shop.Wishlist.Add(ctx, lamp()))
	h.shop.Logout()

	_, err := h.shop.Login(ctx, "return@example.com", "secret123")
	require.NoError(t, err)
	assert.Len(t, h.shop.Cart.Items(), 1)
	assert.Len(t, h.shop.Wishlist.Items(), 1)

	_, err = h.shop.Login(ctx, "return@example.com", "wrong-pass")
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}
