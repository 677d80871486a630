// Package respond writes the {success, message, data} envelope shared by
// every JSON endpoint.
package respond

import "github.com/gofiber/fiber/v2"

func OK(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// FailWith is Fail with a data payload, for partial results.
func FailWith(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message, "data": data})
}

// Invalid reports field-level validation errors.
func Invalid(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "validation failed",
		"errors":  errs,
	})
}

// ErrorHandler is installed as the fiber app error handler so that routing
// errors (404, 405) and panics recovered by middleware use the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		msg = fe.Message
	}
	return Fail(c, code, msg)
}
