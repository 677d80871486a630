package category

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"electronics":    "electronics",
		"Home & Kitchen": "home-kitchen",
		" BOOKS ":        "books",
	}
	for in, want := range cases {
		got, ok := Normalize(in)
		if !ok || got != want {
			t.Fatalf("Normalize(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := Normalize("pet food"); ok {
		t.Fatalf("unknown category must not normalize")
	}
}

func TestGetCategories(t *testing.T) {
	app := fiber.New()
	NewHandler().RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/categories", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var body struct {
		Data []Category `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(body.Data))
	}
}
