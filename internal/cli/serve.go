package cli

import (
	"context"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threadline-io/threadline/internal/fallback"
	"github.com/threadline-io/threadline/internal/observability"
	"github.com/threadline-io/threadline/internal/server"
	"github.com/threadline-io/threadline/internal/storage"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var (
		addr        string
		dev         bool
		useFallback bool
		root        string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Long: `Run the threadline API server.

By default the server connects to MongoDB and serves the full API.
--dev swaps MongoDB for in-memory repositories. --fallback serves the
synthesized fallback definition instead, answering liveness probes
without any database dependency.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(dev, useFallback, root)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "use in-memory storage instead of MongoDB")
	cmd.Flags().BoolVar(&useFallback, "fallback", false, "serve the fallback definition")
	cmd.Flags().StringVar(&root, "root", ".", "deploy root holding the fallback definition")

	return cmd
}

func (c *CLI) runServe(dev, useFallback bool, root string) error {
	logger, err := observability.NewLogger(c.cfg.Logging.Level, c.cfg.Logging.Format)
	if err != nil {
		c.exitCode = ExitValidation
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if useFallback {
		def, err := fallback.Load(filepath.Join(root, fallback.FileName))
		if err != nil {
			c.exitCode = ExitValidation
			return err
		}
		return c.serveFallback(ctx, logger, def)
	}

	var (
		products storage.ProductRepository
		orders   storage.OrderRepository
	)
	if dev {
		logger.Info("using in-memory storage")
		products = storage.NewMemoryProducts()
		orders = storage.NewMemoryOrders()
	} else {
		connectCtx, cancel := context.WithTimeout(ctx, c.cfg.MongoDB.ConnectTimeout)
		client, err := storage.Connect(connectCtx, c.cfg.MongoDB)
		cancel()
		if err != nil {
			c.exitCode = ExitInternal
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		db := client.Database(c.cfg.MongoDB.Database)
		if err := storage.EnsureIndexes(ctx, db); err != nil {
			c.exitCode = ExitInternal
			return err
		}
		products = storage.NewMongoProducts(db)
		orders = storage.NewMongoOrders(db)
	}

	srv := server.New(c.cfg, logger, products, orders)
	if err := srv.Run(ctx); err != nil {
		c.exitCode = ExitInternal
		return err
	}
	return nil
}

func (c *CLI) serveFallback(ctx context.Context, logger *zap.Logger, def fallback.Definition) error {
	srv := &http.Server{
		Addr:    c.cfg.Server.Addr,
		Handler: fallback.Router(def),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("fallback server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		c.exitCode = ExitInternal
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.Server.WriteTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
