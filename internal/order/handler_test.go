package order

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/money"
)

func makeAppWithOrderHandler(t *testing.T) (*fiber.App, *cart.Service) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	carts := cart.NewService(cart.NewInMemoryRepository(), nil, logger)
	h := NewHandler(NewService(NewInMemoryRepository(), carts, logger), logger)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": v}})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app, carts
}

func post(t *testing.T, app *fiber.App, body string) (int, Order) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var env struct {
		Data Order `json:"data"`
	}
	_ = json.NewDecoder(res.Body).Decode(&env)
	return res.StatusCode, env.Data
}

func TestCreateOrder_FromCart(t *testing.T) {
	app, carts := makeAppWithOrderHandler(t)
	ctx := context.Background()

	if status, _ := post(t, app, `{"source":"cart"}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", status)
	}

	_, _ = carts.Add(ctx, "u1", cart.AddInput{ProductName: "Lamp", ProductPrice: "₹1,299", ProductImage: "i", ProductCategory: "home-kitchen", Quantity: 2})
	_, _ = carts.Add(ctx, "u1", cart.AddInput{ProductName: "Mat", ProductPrice: "₹799.50", ProductImage: "i", ProductCategory: "sports"})

	status, placed := post(t, app, `{"source":"cart"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if want := money.MustParse("3397.50"); placed.Total != want {
		t.Fatalf("expected total %d, got %d", want, placed.Total)
	}
	if placed.DisplayTotal != "₹3397.50" || placed.Quantity() != 3 || placed.Source != SourceCart {
		t.Fatalf("unexpected order %+v", placed)
	}

	left, _ := carts.List(ctx, "u1")
	if len(left) != 0 {
		t.Fatalf("checkout must clear the cart, %d lines left", len(left))
	}

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	if res.StatusCode != fiber.StatusOK || !strings.Contains(string(b), placed.ID) {
		t.Fatalf("expected order history to contain %s, got %d %s", placed.ID, res.StatusCode, b)
	}
}

func TestCreateOrder_BuyNowLeavesCart(t *testing.T) {
	app, carts := makeAppWithOrderHandler(t)
	ctx := context.Background()
	_, _ = carts.Add(ctx, "u1", cart.AddInput{ProductName: "Lamp", ProductPrice: "499", ProductImage: "i", ProductCategory: "c"})

	if status, _ := post(t, app, `{"source":"buy-now"}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without item, got %d", status)
	}

	status, placed := post(t, app, `{"source":"buy-now","item":{"productName":"Book","productPrice":"₹350","productImage":"i","productCategory":"books"}}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if placed.Total != money.FromMajor(350) || len(placed.Items) != 1 {
		t.Fatalf("unexpected order %+v", placed)
	}
	left, _ := carts.List(ctx, "u1")
	if len(left) != 1 {
		t.Fatalf("buy-now must not touch the cart")
	}

	if status, _ := post(t, app, `{"source":"layaway"}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown source, got %d", status)
	}
}
