package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/adiwidodo/tokokita-backend/api/controllers"
	"github.com/adiwidodo/tokokita-backend/api/routes"
	"github.com/adiwidodo/tokokita-backend/internal/cart"
	checkoutsvc "github.com/adiwidodo/tokokita-backend/internal/checkout"
	"github.com/adiwidodo/tokokita-backend/internal/orders"
	"github.com/adiwidodo/tokokita-backend/internal/products"
	"github.com/adiwidodo/tokokita-backend/internal/reviews"
	"github.com/adiwidodo/tokokita-backend/internal/shipping"
	"github.com/adiwidodo/tokokita-backend/internal/wishlist"
	"github.com/adiwidodo/tokokita-backend/pkg/config"
	"github.com/adiwidodo/tokokita-backend/pkg/db"
	"github.com/adiwidodo/tokokita-backend/pkg/env"
	"github.com/adiwidodo/tokokita-backend/pkg/logger"
	"github.com/adiwidodo/tokokita-backend/pkg/metrics"
	"github.com/adiwidodo/tokokita-backend/pkg/migrate"
	"github.com/adiwidodo/tokokita-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gormDB := dbClient.DB()
	productRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	wishlistRepo := wishlist.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)

	shippingService := shipping.NewService()

	productService, err := products.NewService(productRepo)
	exitOnWiring(logg, "product service", err)

	cartService, err := cart.NewService(cartRepo, dbClient, productRepo)
	exitOnWiring(logg, "cart service", err)

	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		cartRepo,
		ordersRepo,
		shippingService,
		nil,
		checkoutsvc.Config{OrderNumberMaxRetries: cfg.Checkout.OrderNumberMaxRetries},
		checkoutMetrics,
	)
	exitOnWiring(logg, "checkout service", err)

	orderService, err := orders.NewService(ordersRepo)
	exitOnWiring(logg, "order service", err)

	wishlistService, err := wishlist.NewService(wishlistRepo, productRepo)
	exitOnWiring(logg, "wishlist service", err)

	reviewService, err := reviews.NewService(reviewRepo, productRepo, ordersRepo)
	exitOnWiring(logg, "review service", err)

	router := routes.NewRouter(routes.Deps{
		Config: cfg,
		Logger: logg,
		Redis:  redisClient,
		Readiness: []controllers.ReadinessCheck{
			{Name: "database", Check: dbClient.Ping},
			{Name: "redis", Check: redisClient.Ping},
		},
		HTTPMetrics:     httpMetrics,
		Registry:        registry,
		ProductService:  productService,
		ShippingService: shippingService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrderService:    orderService,
		WishlistService: wishlistService,
		ReviewService:   reviewService,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "server stopped")
}

func exitOnWiring(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name, err)
	os.Exit(1)
}
