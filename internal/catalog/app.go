// Package catalog wires the catalog service: products in PostgreSQL, the
// auth gateway, the genai client and the low-stock alert dispatcher.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/aiclient"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/config"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/dispatch"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/httpapi"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/migrations"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/repositories/products"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/services"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/gateway"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	authConn   *grpc.ClientConn
	gateway    *gateway.Gateway
	dispatcher *dispatch.Dispatcher
	products   *services.ProductService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel).With("service", "catalog")

	db, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := dbx.Migrate(ctx, db, migrations.Migrations); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{config: c, logger: logger, db: db}

	var verifier gateway.Verifier
	if c.AuthGRPCAddr != "" {
		v, conn, err := gateway.DialGRPC(c.AuthGRPCAddr)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		verifier, app.authConn = v, conn
		logger.Info(ctx, "verifying tokens over gRPC", "address", c.AuthGRPCAddr)
	} else {
		verifier = gateway.NewHTTPVerifier(c.AuthServiceURL, nil)
		logger.Info(ctx, "verifying tokens over HTTP", "url", c.AuthServiceURL)
	}
	app.gateway = gateway.New(verifier, c.AuthTimeout, logger)

	app.dispatcher = dispatch.NewDispatcher(
		dispatch.NewHTTPNotifier(c.AlertsWebhookURL, c.AlertsWebhookTimeout),
		c.AlertQueueSize, c.AlertWorkers, logger,
	)

	app.products = services.NewProductService(
		products.NewPostgresRepository(db),
		services.PostgresTx(db),
		aiclient.New(c.AIServiceURL, c.AITimeout, c.BackoffPolicy(), logger),
		app.dispatcher,
		c.LowStockThreshold,
		logger,
	)

	return app, nil
}

// Run serves HTTP until a termination signal arrives, then stops the server
// and gives queued alerts AlertDrainTimeout to go out.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")
	defer app.close()

	app.dispatcher.Start(ctx)

	e := httpx.New(app.logger)
	httpapi.NewHandler(app.products, app.gateway, app.db.PingContext).Register(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpx.Serve(gctx, e, app.config.EndpointAddrHTTP, app.logger)
	})
	err := g.Wait()

	drainCtx, cancel := context.WithTimeout(context.Background(), app.config.AlertDrainTimeout)
	defer cancel()
	if derr := app.dispatcher.Shutdown(drainCtx); derr != nil {
		app.logger.Warn(drainCtx, "alert queue not drained", "error", derr)
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) close() {
	if app.authConn != nil {
		_ = app.authConn.Close()
	}
	_ = app.db.Close()
}
