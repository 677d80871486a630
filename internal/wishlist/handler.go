package wishlist

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/respond"
)

// Handler exposes the wishlist under /api/wishlist.
type Handler struct {
	service *Service
	logger  *log.Logger
}

func NewHandler(s *Service, logger *log.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/wishlist", h.getWishlist)
	r.Post("/api/wishlist", h.addToWishlist)
	r.Post("/api/wishlist/move-all-to-cart", h.moveAllToCart)
	r.Delete("/api/wishlist/product/:name", h.removeByName)
	r.Delete("/api/wishlist", h.clearWishlist)
}

func (h *Handler) getWishlist(c *fiber.Ctx) error {
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

func (h *Handler) addToWishlist(c *fiber.Ctx) error {
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
	return respond.OK(c, fiber.StatusCreated, "Item added to wishlist", item)
}

func (h *Handler) removeByName(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid product name")
	}
	if err := h.service.RemoveByName(c.UserContext(), userID, name); err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "Item removed from wishlist", nil)
}

func (h *Handler) clearWishlist(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := h.service.Clear(c.UserContext(), userID); err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "Wishlist cleared", nil)
}

func (h *Handler) moveAllToCart(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	res, err := h.service.MoveAllToCart(c.UserContext(), userID)
	if err != nil {
		h.logger.Printf("move all to cart for %s: %v", userID, err)
		return respond.FailWith(c, fiber.StatusInternalServerError, "Failed to move items to cart", res)
	}

	total := res.Moved + res.Failed
	switch {
	case total == 0:
		return respond.OK(c, fiber.StatusOK, "Wishlist is empty", res)
	case res.Failed == 0:
		return respond.OK(c, fiber.StatusOK, fmt.Sprintf("Moved %d items to cart", res.Moved), res)
	case res.Moved == 0:
		return respond.FailWith(c, fiber.StatusInternalServerError, "Failed to move items to cart", res)
	default:
		return respond.OK(c, fiber.StatusOK, fmt.Sprintf("Moved %d of %d items to cart", res.Moved, total), res)
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrAlreadyInWishlist):
		return respond.Fail(c, fiber.StatusConflict, "Item already in wishlist")
	case errors.Is(err, ErrNotFound):
		return respond.Fail(c, fiber.StatusNotFound, "Wishlist item not found")
	default:
		h.logger.Printf("wishlist request %s %s: %v", c.Method(), c.Path(), err)
		return respond.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}
