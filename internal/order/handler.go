package order

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/respond"
)

// Handler delegates checkout to the order service.
type Handler struct {
	service *Service
	logger  *log.Logger
}

func NewHandler(s *Service, logger *log.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders", h.getOrders)
}

type createOrderRequest struct {
	Source string         `json:"source"`
	Item   *cart.AddInput `json:"item,omitempty"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	var placed Order
	switch payload.Source {
	case SourceCart, "":
		placed, err = h.service.PlaceFromCart(c.UserContext(), userID)
	case SourceBuyNow:
		if payload.Item == nil {
			return respond.Fail(c, fiber.StatusBadRequest, "item is required for buy-now")
		}
		if errs := payload.Item.Validate(); len(errs) > 0 {
			return respond.Invalid(c, errs)
		}
		placed, err = h.service.PlaceBuyNow(c.UserContext(), userID, *payload.Item)
	default:
		return respond.Fail(c, fiber.StatusBadRequest, "source must be cart or buy-now")
	}
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return respond.Fail(c, fiber.StatusBadRequest, "Your cart is empty")
		}
		h.logger.Printf("place order for %s: %v", userID, err)
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to place order")
	}
	return respond.OK(c, fiber.StatusCreated, "Order placed successfully", placed)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	orders, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		h.logger.Printf("list orders for %s: %v", userID, err)
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to list orders")
	}
	return respond.OK(c, fiber.StatusOK, "", orders)
}
