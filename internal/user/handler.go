package user

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/respond"
)

type Handler struct {
	service *Service
	shopper *auth.Issuer
	admin   *auth.Issuer
	logger  *log.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, shopper, admin *auth.Issuer, logger *log.Logger) *Handler {
	return &Handler{service: service, shopper: shopper, admin: admin, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/seller/register", h.registerSeller)
	r.Post("/api/auth/seller/login", h.sellerLogin)
}

// RegisterProtectedRoutes expects r to already carry the shopper middleware.
func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/auth/me", h.me)
}

func (h *Handler) register(c *fiber.Ctx) error {
	return h.signUp(c, h.service.Register, h.shopper, "token")
}

func (h *Handler) registerSeller(c *fiber.Ctx) error {
	return h.signUp(c, h.service.RegisterSeller, h.admin, "adminToken")
}

func (h *Handler) signUp(c *fiber.Ctx, create func(context.Context, RegisterInput) (User, error), iss *auth.Issuer, tokenKey string) error {
	payload := new(RegisterInput)
	if err := c.BodyParser(payload); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if errs := payload.validate(); len(errs) > 0 {
		return respond.Invalid(c, errs)
	}

	created, err := create(c.UserContext(), *payload)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return respond.Fail(c, fiber.StatusConflict, "Email already exists")
		}
		h.logger.Printf("register %s: %v", payload.Email, err)
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to create account")
	}
	return h.issue(c, fiber.StatusCreated, "Account created", created, iss, tokenKey)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	u, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	return h.issue(c, fiber.StatusOK, "Login successful", u, h.shopper, "token")
}

func (h *Handler) sellerLogin(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	u, err := h.service.AuthenticateSeller(c.UserContext(), payload.Email, payload.Password)
	switch {
	case errors.Is(err, ErrNotSeller):
		return respond.Fail(c, fiber.StatusForbidden, "This account is not registered as a seller")
	case err != nil:
		return respond.Fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	return h.issue(c, fiber.StatusOK, "Login successful", u, h.admin, "adminToken")
}

func (h *Handler) issue(c *fiber.Ctx, status int, msg string, u User, iss *auth.Issuer, tokenKey string) error {
	signed, err := iss.Issue(auth.Claims{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	if err != nil {
		h.logger.Printf("issue token for %s: %v", u.ID, err)
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to generate token")
	}
	return respond.OK(c, status, msg, fiber.Map{tokenKey: signed, "user": sanitizeUser(u)})
}

// me returns the user record for the currently authenticated caller.
func (h *Handler) me(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	u, err := h.service.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to load user")
	}
	return respond.OK(c, fiber.StatusOK, "", sanitizeUser(u))
}
