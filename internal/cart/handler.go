package cart

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/respond"
)

// Handler exposes the cart under /api/cart.
type Handler struct {
	service *Service
	logger  *log.Logger
}

func NewHandler(s *Service, logger *log.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/cart", h.getCart)
	r.Post("/api/cart", h.addToCart)
	r.Put("/api/cart/:id", h.updateQuantity)
	r.Delete("/api/cart/:id", h.removeItem)
	r.Delete("/api/cart", h.clearCart)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	items, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "", items)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	payload := new(AddInput)
	if err := c.BodyParser(payload); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if errs := payload.Validate(); len(errs) > 0 {
		return respond.Invalid(c, errs)
	}

	item, err := h.service.Add(c.UserContext(), userID, *payload)
	if err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "Item added to cart", item)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.UpdateQuantity(c.UserContext(), userID, c.Params("id"), payload.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "Cart updated", item)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := h.service.Remove(c.UserContext(), userID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "Item removed from cart", nil)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := h.service.Clear(c.UserContext(), userID); err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "Cart cleared", nil)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return respond.Fail(c, fiber.StatusNotFound, "Cart item not found")
	case errors.Is(err, ErrInvalidQuantity):
		return respond.Fail(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Printf("cart request %s %s: %v", c.Method(), c.Path(), err)
		return respond.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}
