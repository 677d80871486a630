package router

import (
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() (*App, *auth.Issuer, *auth.Issuer) {
	shopper := auth.NewIssuer("shop", time.Hour)
	admin := auth.NewIssuer("admin", time.Hour)
	return NewInMemory(shopper, admin, log.New(io.Discard, "", 0)), shopper, admin
}

func TestRoutes_Registered(t *testing.T) {
	app, _, _ := newTestApp()
	routes := map[string]bool{}
	for _, r := range app.GetRoutes(true) {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /api/auth/login",
		"POST /api/auth/seller/login",
		"GET /api/categories",
		"GET /api/products/:id",
		"POST /api/cart",
		"PUT /api/cart/:id",
		"DELETE /api/wishlist/product/:name",
		"POST /api/wishlist/move-all-to-cart",
		"POST /api/orders",
		"GET /api/admin/products/export",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestTokenNamespaces(t *testing.T) {
	app, shopper, admin := newTestApp()
	shopTok, _ := shopper.Issue(auth.Claims{UserID: "u1", Role: auth.RoleCustomer})
	adminTok, _ := admin.Issue(auth.Claims{UserID: "s1", Role: auth.RoleSeller})

	cases := []struct {
		path, token string
		want        int
	}{
		{"/api/cart", "", fiber.StatusUnauthorized},
		{"/api/cart", adminTok, fiber.StatusUnauthorized},
		{"/api/cart", shopTok, fiber.StatusOK},
		{"/api/admin/products", shopTok, fiber.StatusUnauthorized},
		{"/api/admin/products", adminTok, fiber.StatusOK},
		{"/api/products", "", fiber.StatusOK},
		{"/api/categories", "", fiber.StatusOK},
		{"/healthz", "", fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.StatusCode, "GET %s", tc.path)
	}
}

func TestIdempotentCartAdd(t *testing.T) {
	app, shopper, _ := newTestApp()
	tok, _ := shopper.Issue(auth.Claims{UserID: "u1"})
	body := `{"productName":"Lamp","productPrice":"₹499","productImage":"i","productCategory":"home-kitchen"}`

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/cart", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Idempotency-Key", "same")
		res, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, res.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(b), `"quantity":1`, "a replayed add must not bump the quantity")
}
