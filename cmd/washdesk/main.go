package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/a2sh3r/expresswash/internal/app"
	"github.com/a2sh3r/expresswash/internal/config"
	"github.com/a2sh3r/expresswash/internal/desk"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/service"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "washdesk:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("washdesk", flag.ExitOnError)
	if err := cfg.ParseFlagSet(fs, os.Args[1:]); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	orderCfg := service.NewOrderServiceConfig(cfg)
	// Orders taken at the counter always get a receipt.
	orderCfg.IssueReceipts = true

	args := fs.Args()
	var (
		orders    service.OrderService
		analytics service.AnalyticsService
	)
	if len(args) > 0 && desk.NeedsStore(args[0]) {
		store, err := app.OpenStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		orders = service.NewOrderService(store.Orders, store.Receipts, orderCfg)
		analytics = service.NewAnalyticsService(store.Analytics, store.Orders, orderCfg.Rates)
	} else {
		orders = service.NewOrderService(nil, nil, orderCfg)
	}

	return desk.New(orders, analytics, orderCfg.Rates, os.Stdout).Run(ctx, args)
}
