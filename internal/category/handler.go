package category

import (
	"github.com/gofiber/fiber/v2"
	"github.com/intellibazar/intellibazar/internal/respond"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/categories", h.getCategories)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return respond.OK(c, fiber.StatusOK, "", All())
}
