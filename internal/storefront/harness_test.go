package storefront

import (
	"io"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/interface/http/router"
	"github.com/intellibazar/intellibazar/internal/order"
	"github.com/intellibazar/intellibazar/internal/product"
	"github.com/intellibazar/intellibazar/internal/user"
	"github.com/intellibazar/intellibazar/internal/wishlist"
	"github.com/stretchr/testify/require"
)

type countingTransport struct {
	calls atomic.Int64
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(r)
}

type harness struct {
	app   *router.App
	base  string
	calls *countingTransport
	shop  *Shop
}

// newHarness serves the full API on a loopback port, backed by in-memory
// stores, and returns a Shop pointed at it.
func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	app := router.New(router.Deps{
		Users:       user.NewInMemoryRepository(nil),
		Products:    product.NewInMemoryRepository(nil),
		Carts:       cart.NewInMemoryRepository(),
		Wishlists:   wishlist.NewInMemoryRepository(),
		Orders:      order.NewInMemoryRepository(),
		Shopper:     auth.NewIssuer("shop-secret", time.Hour),
		Admin:       auth.NewIssuer("admin-secret", time.Hour),
		UploadDir:   t.TempDir(),
		CORSOrigins: "*",
		Logger:      logger,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	base := "http://" + ln.Addr().String()
	calls := &countingTransport{next: http.DefaultTransport}
	client := NewClient(base, &http.Client{Transport: calls, Timeout: 5 * time.Second})
	return &harness{
		app:   app,
		base:  base,
		calls: calls,
		shop:  NewShop(client, NewMemoryStore(), logger),
	}
}

func (h *harness) signUp(t *testing.T, email string) User {
	t.Helper()
	u, err := h.shop.Register(t.Context(), "Test Shopper", email, "secret123")
	require.NoError(t, err)
	return u
}

func (h *harness) callCount() int64 { return h.calls.calls.Load() }

func rating(v float64) *float64 { return &v }

func shirt() Product {
	return Product{Name: "Shirt", Price: "₹500", Image: "https://img.example/shirt.jpg", Category: "fashion", Rating: rating(4.2)}
}

func lamp() Product {
	return Product{Name: "Desk Lamp", Price: "₹1,299", Image: "https://img.example/lamp.jpg", Category: "home-kitchen"}
}

func honey() Product {
	return Product{Name: "Organic Honey 500g", Price: "₹399", Image: "https://img.example/honey.jpg", Category: "groceries"}
}
