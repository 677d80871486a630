package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	tok, err := iss.Issue(Claims{UserID: "u-1", Email: "a@b.c", Name: "A", Role: RoleSeller})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := iss.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != RoleSeller || claims.Email != "a@b.c" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other := NewIssuer("other-secret", time.Hour)
	if _, err := other.Parse(tok); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestParse_Expired(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := iss.Issue(Claims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("secret", time.Minute).Parse(tok); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func newProtectedApp(iss *Issuer, roles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{iss.Middleware()}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		id, err := UserIDFromCtx(c)
		if err != nil {
			return err
		}
		return c.SendString(id)
	})
	app.Get("/whoami", handlers...)
	return app
}

func TestMiddleware_StatusCodes(t *testing.T) {
	shopper := NewIssuer("shop", time.Hour)
	admin := NewIssuer("admin", time.Hour)
	app := newProtectedApp(admin, RoleSeller, RoleAdmin)

	// missing token
	res, _ := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}

	// shopper token on admin route
	tok, _ := shopper.Issue(Claims{UserID: "u-1", Role: RoleSeller})
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign namespace token, got %d", res.StatusCode)
	}

	// admin namespace but customer role
	tok, _ = admin.Issue(Claims{UserID: "u-2", Role: RoleCustomer})
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for customer role, got %d", res.StatusCode)
	}

	tok, _ = admin.Issue(Claims{UserID: "u-3", Role: RoleSeller})
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for seller, got %d", res.StatusCode)
	}
}
