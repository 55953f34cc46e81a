package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a2sh3r/expresswash/internal/config"
	"github.com/a2sh3r/expresswash/internal/handlers"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/middleware"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/a2sh3r/expresswash/internal/service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type App struct {
	server *http.Server
	store  *Store
}

// NewApp opens the store and prepares the server. cfg is expected to be loaded and validated.
func NewApp(cfg *config.Config) (*App, error) {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := OpenStore(cfg)
	if err != nil {
		logger.Log.Error("database connection failed", zap.String("driver", cfg.StorageDriver), zap.Error(err))
		return nil, err
	}

	return &App{
		server: &http.Server{
			Addr:              cfg.RunAddress,
			Handler:           NewHandler(cfg, store),
			ReadHeaderTimeout: 10 * time.Second,
		},
		store: store,
	}, nil
}

// NewHandler builds the HTTP surface over store.
func NewHandler(cfg *config.Config, store *Store) http.Handler {
	orderCfg := service.NewOrderServiceConfig(cfg)
	orderService := service.NewOrderService(store.Orders, store.Receipts, orderCfg)
	analyticsService := service.NewAnalyticsService(store.Analytics, store.Orders, orderCfg.Rates)
	authService := service.NewAuthService(
		models.Operator{Login: cfg.OperatorLogin, PasswordHash: cfg.OperatorHash},
		cfg.SecretKey,
		cfg.TokenTTL,
	)

	var pinger handlers.Pinger
	if store.DB != nil {
		pinger = store.DB
	}
	handler := handlers.NewHandler(orderService, analyticsService, authService, orderCfg.Rates, pinger)

	var limiter *middleware.ClientLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewClientRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	return handlers.NewRouter(handler, cfg.SecretKey, limiter)
}

func (a *App) Run(ctx context.Context) error {
	go func() {
		logger.Log.Info("starting server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.Log.Info("shutting down server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
		return err
	}

	logger.Log.Info("closing database connection...")
	if err := a.store.Close(); err != nil {
		logger.Log.Error("failed to close database", zap.Error(err))
		return err
	}

	logger.Sync()
	return nil
}
