// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/catalog"
	"github.com/your-org/storefront-gateway/internal/domain/checkout"
	"github.com/your-org/storefront-gateway/internal/domain/coupon"
	"github.com/your-org/storefront-gateway/internal/domain/pricing"
	"github.com/your-org/storefront-gateway/internal/infrastructure/database/postgres"
	redisdb "github.com/your-org/storefront-gateway/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/interfaces/http"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/routes"
	"github.com/your-org/storefront-gateway/internal/pkg/session"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := middleware.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to Redis when the deployment uses it, either as the storage
	// backend or for rate limiting.
	var redisConn *redisdb.Client
	if cfg.Storage.Backend == "redis" || cfg.Security.RateLimitPerMinute > 0 {
		redisConn, err = redisdb.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisConn.Close()
		logger.Info("Redis connection established")
	}

	// Select the persistence adapter for session collections
	adapter, cleanup, err := buildAdapter(cfg, redisConn)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}
	logger.Infof("Storage backend ready: %s", cfg.Storage.Backend)

	// Upstream commerce API client
	upstreamClient := upstream.NewClient(cfg.Upstream, logger)

	// Domain services
	carts := cart.NewStore(adapter, logger)
	wishlists := cart.NewWishlist(adapter, logger)
	coupons := coupon.NewService(upstreamClient, adapter, logger)
	pricer := pricing.NewEngine(cfg.Pricing)
	checkouts := checkout.NewService(carts, coupons, pricer, upstreamClient, adapter, cfg.Payment, logger)
	catalogSvc := catalog.NewService(upstreamClient, adapter, cfg.Catalog, logger)
	sessions := session.NewManager(cfg.Session, cfg.App.Name)

	// Background catalog refresh
	catalogSvc.Start()
	defer catalogSvc.Stop()

	redisClient := redisClientOrNil(redisConn)

	server := http.NewServer(cfg, logger, redisClient, routes.Dependencies{
		Sessions:  sessions,
		Carts:     carts,
		Wishlists: wishlists,
		Coupons:   coupons,
		Pricer:    pricer,
		Checkouts: checkouts,
		Catalog:   catalogSvc,
		Upstream:  upstreamClient,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logger.Info("Server shutdown completed")
}

// buildAdapter constructs the configured storage adapter. The returned
// cleanup function closes backend connections and may be nil.
func buildAdapter(cfg *config.Config, redisConn *redisdb.Client) (storage.Adapter, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryAdapter(), nil, nil

	case "file":
		adapter, err := storage.NewFileAdapter(cfg.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return adapter, nil, nil

	case "redis":
		return storage.NewRedisAdapter(redisConn.GetClient(), cfg.Storage.TTL), nil, nil

	case "postgres":
		conn, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		adapter, err := storage.NewPostgresAdapter(conn.DB)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		cleanup := func() { conn.Close() }
		return adapter, cleanup, nil
	}

	// Config.Validate rejects anything else before we get here.
	return storage.NewMemoryAdapter(), nil, nil
}

func redisClientOrNil(conn *redisdb.Client) *redis.Client {
	if conn == nil {
		return nil
	}
	return conn.GetClient()
}
