package idempotency

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/respond"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
)

// New returns middleware for POST routes. Requests without the header pass
// straight through. Keys are scoped to the caller and the route, so the same
// key from two users never collides. Responses with status 5xx are not
// remembered and the key can be retried.
func New(store Store, ttl time.Duration, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderKey)
		if key == "" || c.Method() != fiber.MethodPost {
			return c.Next()
		}
		scope := c.IP()
		if id, err := auth.UserIDFromCtx(c); err == nil {
			scope = id
		}
		full := scope + ":" + c.Path() + ":" + key

		rec, claimed, err := store.Begin(c.UserContext(), full, ttl)
		if err != nil {
			logger.Printf("idempotency begin %s: %v", full, err)
			return c.Next()
		}
		if !claimed {
			if !rec.Done {
				return respond.Fail(c, fiber.StatusConflict, "A request with this Idempotency-Key is already in progress")
			}
			c.Set(HeaderReplayed, "true")
			if rec.ContentType != "" {
				c.Set(fiber.HeaderContentType, rec.ContentType)
			}
			return c.Status(rec.Status).Send(rec.Body)
		}

		err = c.Next()
		status := c.Response().StatusCode()
		if err != nil || status >= fiber.StatusInternalServerError {
			if rerr := store.Release(context.Background(), full); rerr != nil {
				logger.Printf("idempotency release %s: %v", full, rerr)
			}
			return err
		}
		body := append([]byte(nil), c.Response().Body()...)
		done := Record{Status: status, ContentType: string(c.Response().Header.ContentType()), Body: body}
		if cerr := store.Complete(context.Background(), full, done, ttl); cerr != nil {
			logger.Printf("idempotency complete %s: %v", full, cerr)
		}
		return nil
	}
}
