package wishlist

import (
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/intellibazar/intellibazar/internal/cart"
)

func makeApp(t *testing.T) (*fiber.App, *cart.Service) {
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

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "u1")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	out := map[string]json.RawMessage{}
	b, _ := io.ReadAll(res.Body)
	_ = json.Unmarshal(b, &out)
	return res.StatusCode, out
}

const speaker = `{"productName":"Smart Speaker","productPrice":"₹2,999","productImage":"/img/s.jpg","productCategory":"electronics"}`

func TestWishlistRoutes_DuplicateIsConflict(t *testing.T) {
	app, _ := makeApp(t)

	if status, _ := do(t, app, "POST", "/api/wishlist", speaker); status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	status, body := do(t, app, "POST", "/api/wishlist", speaker)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", status)
	}
	if !strings.Contains(string(body["message"]), "already in wishlist") {
		t.Fatalf("expected duplicate-specific message, got %s", body["message"])
	}

	_, body = do(t, app, "GET", "/api/wishlist", "")
	var items []Item
	_ = json.Unmarshal(body["data"], &items)
	if len(items) != 1 {
		t.Fatalf("duplicate add must leave the wishlist unchanged, got %d items", len(items))
	}
}

func TestWishlistRoutes_RemoveByEncodedName(t *testing.T) {
	app, _ := makeApp(t)
	do(t, app, "POST", "/api/wishlist", speaker)

	if status, _ := do(t, app, "DELETE", "/api/wishlist/product/Smart%20Speaker", ""); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if status, _ := do(t, app, "DELETE", "/api/wishlist/product/Smart%20Speaker", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 on second remove, got %d", status)
	}
}

func TestWishlistRoutes_MoveAllToCart(t *testing.T) {
	app, carts := makeApp(t)

	status, body := do(t, app, "POST", "/api/wishlist/move-all-to-cart", "")
	if status != fiber.StatusOK || !strings.Contains(string(body["message"]), "empty") {
		t.Fatalf("expected empty-wishlist message, got %d %s", status, body["message"])
	}

	do(t, app, "POST", "/api/wishlist", speaker)
	do(t, app, "POST", "/api/wishlist", strings.Replace(speaker, "Smart Speaker", "Router", 1))

	status, body = do(t, app, "POST", "/api/wishlist/move-all-to-cart", "")
	if status != fiber.StatusOK || string(body["success"]) != "true" {
		t.Fatalf("expected success, got %d %v", status, body)
	}
	var res MoveResult
	_ = json.Unmarshal(body["data"], &res)
	if res.Moved != 2 || res.Failed != 0 {
		t.Fatalf("unexpected move result %+v", res)
	}

	items, _ := carts.List(t.Context(), "u1")
	if len(items) != 2 {
		t.Fatalf("expected 2 cart lines, got %d", len(items))
	}
	_, body = do(t, app, "GET", "/api/wishlist", "")
	if string(body["data"]) != "[]" {
		t.Fatalf("expected empty wishlist after move, got %s", body["data"])
	}
}
