// Package router assembles the fiber application from the domain handlers.
package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/category"
	"github.com/intellibazar/intellibazar/internal/idempotency"
	"github.com/intellibazar/intellibazar/internal/order"
	"github.com/intellibazar/intellibazar/internal/product"
	"github.com/intellibazar/intellibazar/internal/respond"
	"github.com/intellibazar/intellibazar/internal/user"
	"github.com/intellibazar/intellibazar/internal/wishlist"
)

// Deps are the stores and settings the router wires together. Nil caches
// fall back to no-op or in-process implementations.
type Deps struct {
	Users     user.Repository
	Products  product.Repository
	Carts     cart.Repository
	Wishlists wishlist.Repository
	Orders    order.Repository

	CartCache   cart.Cache
	Idempotency idempotency.Store

	Shopper *auth.Issuer
	Admin   *auth.Issuer

	UploadDir      string
	CORSOrigins    string
	IdempotencyTTL time.Duration
	AccessLog      bool
	Logger         *log.Logger
}

// App is the assembled server plus the services cmd/app needs for seeding.
type App struct {
	*fiber.App
	Users    *user.Service
	Products *product.Service
}

// Shopper routes live under these prefixes and require the shopper token.
var shopperPrefixes = []string{"/api/cart", "/api/wishlist", "/api/orders", "/api/auth/me"}

func New(d Deps) *App {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Idempotency == nil {
		d.Idempotency = idempotency.NewMemoryStore()
	}
	if d.IdempotencyTTL == 0 {
		d.IdempotencyTTL = 10 * time.Minute
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          respond.ErrorHandler,
		BodyLimit:             10 * 1024 * 1024,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if d.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + idempotency.HeaderKey,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return respond.OK(c, fiber.StatusOK, "ok", nil)
	})
	if d.UploadDir != "" {
		app.Static("/uploads", d.UploadDir)
	}

	idem := idempotency.New(d.Idempotency, d.IdempotencyTTL, d.Logger)
	app.Use(shopperPrefixes, d.Shopper.Middleware(), idem)
	app.Use("/api/admin", d.Admin.Middleware(), auth.RequireRole(auth.RoleSeller, auth.RoleAdmin), idem)

	userService := user.NewService(d.Users)
	productService := product.NewService(d.Products)
	cartService := cart.NewService(d.Carts, d.CartCache, d.Logger)
	wishlistService := wishlist.NewService(d.Wishlists, cartService, d.Logger)
	orderService := order.NewService(d.Orders, cartService, d.Logger)

	userHandler := user.NewHandler(userService, d.Shopper, d.Admin, d.Logger)
	userHandler.RegisterPublicRoutes(app)
	userHandler.RegisterProtectedRoutes(app)

	category.NewHandler().RegisterPublicRoutes(app)

	productHandler := product.NewHandler(productService, d.UploadDir, d.Logger)
	productHandler.RegisterPublicRoutes(app)
	productHandler.RegisterAdminRoutes(app)

	cart.NewHandler(cartService, d.Logger).RegisterProtectedRoutes(app)
	wishlist.NewHandler(wishlistService, d.Logger).RegisterProtectedRoutes(app)
	order.NewHandler(orderService, d.Logger).RegisterProtectedRoutes(app)

	return &App{App: app, Users: userService, Products: productService}
}

// NewInMemory wires every store to its in-memory implementation.
func NewInMemory(shopper, admin *auth.Issuer, logger *log.Logger) *App {
	return New(Deps{
		Users:       user.NewInMemoryRepository(nil),
		Products:    product.NewInMemoryRepository(nil),
		Carts:       cart.NewInMemoryRepository(),
		Wishlists:   wishlist.NewInMemoryRepository(),
		Orders:      order.NewInMemoryRepository(),
		Shopper:     shopper,
		Admin:       admin,
		CORSOrigins: "*",
		Logger:      logger,
	})
}
