package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/cart"
	"github.com/intellibazar/intellibazar/internal/config"
	"github.com/intellibazar/intellibazar/internal/database"
	"github.com/intellibazar/intellibazar/internal/idempotency"
	"github.com/intellibazar/intellibazar/internal/interface/http/router"
	"github.com/intellibazar/intellibazar/internal/order"
	"github.com/intellibazar/intellibazar/internal/product"
	"github.com/intellibazar/intellibazar/internal/user"
	"github.com/intellibazar/intellibazar/internal/wishlist"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[intellibazar] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeStores := mustOpenStores(ctx, cfg, logger)
	defer closeStores()

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("redis ping %s: %v", cfg.RedisAddr, err)
		}
		defer rdb.Close()
		deps.CartCache = cart.NewRedisCache(rdb)
		deps.Idempotency = idempotency.NewRedisStore(rdb)
		logger.Printf("redis cache enabled at %s", cfg.RedisAddr)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatalf("create upload dir: %v", err)
	}
	deps.Shopper = auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	deps.Admin = auth.NewIssuer(cfg.AdminJWTSecret, cfg.AdminTokenTTL)
	deps.UploadDir = cfg.UploadDir
	deps.CORSOrigins = cfg.CORSOrigins
	deps.IdempotencyTTL = cfg.IdempotencyTTL
	deps.AccessLog = true
	deps.Logger = logger

	app := router.New(deps)

	if cfg.SeedProducts {
		n, err := app.Products.Seed(ctx, product.SampleProducts(""))
		if err != nil {
			logger.Fatalf("seed products: %v", err)
		}
		if n > 0 {
			logger.Printf("seeded %d products", n)
		}
	}

	go func() {
		<-ctx.Done()
		logger.Printf("shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("listening on %s (store=%s)", cfg.Addr, cfg.StoreDriver)
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}

// mustOpenStores builds the repositories for the configured driver and
// returns a func that releases the underlying connection.
func mustOpenStores(ctx context.Context, cfg config.Config, logger *log.Logger) (router.Deps, func()) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db := mustOpenDB(ctx, cfg.DatabaseURL, logger)
		return router.Deps{
			Users:     user.NewPostgresRepository(db),
			Products:  product.NewPostgresRepository(db),
			Carts:     cart.NewPostgresRepository(db),
			Wishlists: wishlist.NewPostgresRepository(db),
			Orders:    order.NewPostgresRepository(db),
		}, func() { db.Close() }

	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		mdb, err := database.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		if err := database.EnsureIndexes(connectCtx, mdb); err != nil {
			logger.Fatalf("mongo indexes: %v", err)
		}
		deps := router.Deps{
			Users:     user.NewMongoRepository(mdb),
			Products:  product.NewMongoRepository(mdb),
			Carts:     cart.NewMongoRepository(mdb),
			Wishlists: wishlist.NewMongoRepository(mdb),
			Orders:    order.NewMongoRepository(mdb),
		}
		return deps, func() { _ = mdb.Client().Disconnect(context.Background()) }

	case config.DriverMemory:
		logger.Printf("using in-memory stores; data is lost on restart")
		return router.Deps{
			Users:     user.NewInMemoryRepository(nil),
			Products:  product.NewInMemoryRepository(nil),
			Carts:     cart.NewInMemoryRepository(),
			Wishlists: wishlist.NewInMemoryRepository(),
			Orders:    order.NewInMemoryRepository(),
		}, func() {}
	}
	logger.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	return router.Deps{}, nil
}

func mustOpenDB(ctx context.Context, dsn string, logger *log.Logger) *sql.DB {
	db, err := database.OpenPostgres(ctx, dsn)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("%v", err)
	}
	return db
}
