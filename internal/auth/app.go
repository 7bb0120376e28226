// Package auth wires the auth service: PostgreSQL user store, token codec,
// the HTTP API and the gRPC TokenVerifier.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	authgrpc "github.com/dmitrijs2005/shopkeeper/internal/auth/grpc"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/config"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/httpapi"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/migrations"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/repositories/users"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/services"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/token"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel).With("service", "auth")

	codec, err := token.NewCodec(c.SecretKey, c.Algorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := dbx.Migrate(ctx, db, migrations.Migrations); err != nil {
		_ = db.Close()
		return nil, err
	}

	us := services.NewUserService(
		users.NewPostgresRepository(db),
		codec,
		services.BcryptHasher{Cost: c.BcryptCost},
		c.MinPasswordLength,
		logger,
	)

	return &App{config: c, logger: logger, db: db, userService: us}, nil
}

// Run serves HTTP and gRPC until a termination signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")
	defer app.db.Close()

	e := httpx.New(app.logger)
	httpapi.NewHandler(app.userService).Register(e)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpx.Serve(ctx, e, app.config.EndpointAddrHTTP, app.logger)
	})

	if app.config.EndpointAddrGRPC != "" {
		g.Go(func() error {
			return authgrpc.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService).Run(ctx)
		})
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
