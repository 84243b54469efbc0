// Package main is the flag-driven entrypoint for the threadline API server.
// It connects to MongoDB (or in-memory storage in dev mode), ensures the
// collection indexes, and serves the REST API until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/threadline-io/threadline/internal/config"
	"github.com/threadline-io/threadline/internal/observability"
	"github.com/threadline-io/threadline/internal/server"
	"github.com/threadline-io/threadline/internal/storage"
)

var (
	version = "1.0.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		configPath = flag.String("config", "", "config file path")
		mongoURL   = flag.String("mongo", "", "MongoDB connection URL (overrides config)")
		database   = flag.String("db", "", "MongoDB database name (overrides config)")
		devMode    = flag.Bool("dev", false, "development mode (in-memory storage)")
		showVer    = flag.Bool("version", false, "show version")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("threadline-apiserver %s (commit: %s, built: %s)\n", version, commit, date)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *mongoURL != "" {
		cfg.MongoDB.URL = *mongoURL
	}
	if *database != "" {
		cfg.MongoDB.Database = *database
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		products storage.ProductRepository
		orders   storage.OrderRepository
	)
	if *devMode {
		logger.Warn("development mode: using in-memory storage (not for production)")
		products = storage.NewMemoryProducts()
		orders = storage.NewMemoryOrders()
	} else {
		// Startup fails if MongoDB is unreachable.
		connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.ConnectTimeout)
		client, err := storage.Connect(connectCtx, cfg.MongoDB)
		cancel()
		if err != nil {
			return fmt.Errorf("mongodb connectivity check failed: %w", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		db := client.Database(cfg.MongoDB.Database)
		if err := storage.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("index bootstrap failed: %w", err)
		}
		logger.Info("connected to mongodb",
			zap.String("url", cfg.MongoDB.URL),
			zap.String("database", cfg.MongoDB.Database),
		)
		products = storage.NewMongoProducts(db)
		orders = storage.NewMongoOrders(db)
	}

	logger.Info("starting api server",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("addr", cfg.Server.Addr),
	)
	return server.New(cfg, logger, products, orders).Run(ctx)
}
