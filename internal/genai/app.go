// Package genai wires the generation service used by the catalog to fill in
// missing product descriptions and categories.
package genai

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/shopkeeper/internal/genai/config"
	"github.com/dmitrijs2005/shopkeeper/internal/genai/httpapi"
	"github.com/dmitrijs2005/shopkeeper/internal/genai/services"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/llm"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	chain      *llm.Chain
	generation *services.GenerationService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel).With("service", "genai")
	chain := llm.FromSettings(logger, c.LLM())

	return &App{
		config:     c,
		logger:     logger,
		chain:      chain,
		generation: services.NewGenerationService(chain, logger),
	}, nil
}

func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	e := httpx.New(app.logger)
	httpapi.NewHandler(app.generation, app.chain).Register(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpx.Serve(gctx, e, app.config.EndpointAddrHTTP, app.logger)
	})
	err := g.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return err
}
