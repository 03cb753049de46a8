package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pdvlabs/pdv-sales-platform/internal/api/handlers"
	"github.com/pdvlabs/pdv-sales-platform/internal/api/middleware"
	"github.com/pdvlabs/pdv-sales-platform/internal/cache"
	"github.com/pdvlabs/pdv-sales-platform/internal/config"
	"github.com/pdvlabs/pdv-sales-platform/internal/db"
	"github.com/pdvlabs/pdv-sales-platform/internal/health"
	"github.com/pdvlabs/pdv-sales-platform/internal/metrics"
	repository "github.com/pdvlabs/pdv-sales-platform/internal/repositories"
	service "github.com/pdvlabs/pdv-sales-platform/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if err := db.RunMigrations(repos.DB, cfg.Database.MigrationsPath); err != nil {
		slog.Error("❌ Error running database migrations", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Host,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	defer func() {
		if err := productCache.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	productService := service.NewProductService(repos.Product, productCache, &cfg.Cache)
	productHandler := handlers.NewProductHandler(productService)
	operatorService := service.NewOperatorService(repos.Operator)
	operatorHandler := handlers.NewOperatorHandler(operatorService)
	registerService := service.NewRegisterService(repos.Register)
	registerHandler := handlers.NewRegisterHandler(registerService)
	cartService := service.NewCartService(repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	saleService := service.NewSaleService(repos.Sale, repos.Register)
	saleHandler := handlers.NewSaleHandler(saleService, cartService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating the health checker", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/operators", operatorHandler.ListOperators())
	routerMux.HandleFunc("GET /api/v1/register/status", registerHandler.GetStatus())
	routerMux.HandleFunc("GET /api/v1/carts/{operatorId}", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/carts/{operatorId}/items", cartHandler.AddItem())
	routerMux.HandleFunc("PATCH /api/v1/carts/{operatorId}/items", cartHandler.AdjustItem())
	routerMux.HandleFunc("DELETE /api/v1/carts/{operatorId}/items/{index}", cartHandler.RemoveItem())
	routerMux.HandleFunc("PUT /api/v1/carts/{operatorId}/checkout-selection", cartHandler.SetCheckoutSelection())
	routerMux.HandleFunc("DELETE /api/v1/carts/{operatorId}", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/v1/sales", saleHandler.CreateSale())
	routerMux.HandleFunc("POST /api/v1/sales/{id}/cancel", saleHandler.CancelSale())
	routerMux.HandleFunc("GET /api/v1/sales", saleHandler.ListSales())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() { // Starts the HTTP server in a new goroutine so it doesn't block the main thread.

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done // blocking, until no signal is added to "done" channel, after the some signal is received the code after this point would be executed

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}
