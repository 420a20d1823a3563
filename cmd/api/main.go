package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/elorielabs/elorie-backend/api/routes"
	authsvc "github.com/elorielabs/elorie-backend/internal/auth"
	cartsvc "github.com/elorielabs/elorie-backend/internal/cart"
	ordersvc "github.com/elorielabs/elorie-backend/internal/orders"
	paymentsvc "github.com/elorielabs/elorie-backend/internal/payment"
	productsvc "github.com/elorielabs/elorie-backend/internal/products"
	"github.com/elorielabs/elorie-backend/internal/users"
	"github.com/elorielabs/elorie-backend/pkg/auth/session"
	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/db"
	"github.com/elorielabs/elorie-backend/pkg/logger"
	"github.com/elorielabs/elorie-backend/pkg/razorpay"
	"github.com/elorielabs/elorie-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.AutoMigrate(); err != nil {
			logg.Error(context.Background(), "failed to run schema migration", err)
			os.Exit(1)
		}
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := productsvc.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	orderRepo := ordersvc.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		Repo:     orderRepo,
		Carts:    cartRepo,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	// The store runs without gateway credentials; only the online
	// payment endpoints refuse requests then.
	var paymentService paymentsvc.Service
	if gateway, gwErr := razorpay.New(cfg.Razorpay); gwErr != nil {
		logg.Warn(context.Background(), "razorpay gateway not configured, online payment disabled")
	} else {
		paymentService, err = paymentsvc.NewService(paymentsvc.ServiceParams{
			Gateway:  gateway,
			Orders:   orderRepo,
			Carts:    cartRepo,
			Checkout: cfg.Checkout,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create payment service", err)
			os.Exit(1)
		}
	}

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Redis:    redisClient,
		Sessions: sessionManager,
		DB:       dbClient,
		Auth:     authService,
		Products: productService,
		Cart:     cartService,
		Orders:   orderService,
		Payment:  paymentService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeout, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeout); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
