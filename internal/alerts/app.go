// Package alerts wires the alerts service: a webhook that enriches low-stock
// events with a supplier price and a generated message.
package alerts

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/shopkeeper/internal/alerts/config"
	"github.com/dmitrijs2005/shopkeeper/internal/alerts/httpapi"
	"github.com/dmitrijs2005/shopkeeper/internal/alerts/pricing"
	"github.com/dmitrijs2005/shopkeeper/internal/alerts/processor"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/llm"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	chain     *llm.Chain
	processor *processor.Processor
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel).With("service", "alerts")

	var prices pricing.Source
	if c.PriceS3Bucket != "" {
		src, err := pricing.NewS3Source(ctx, c.S3(), c.RequestTimeout)
		if err != nil {
			return nil, err
		}
		prices = src
		logger.Info(ctx, "supplier price from S3", "bucket", c.PriceS3Bucket, "key", c.PriceS3Key)
	} else {
		prices = pricing.NewHTTPSource(c.PriceURL, c.RequestTimeout)
		logger.Info(ctx, "supplier price over HTTP", "url", c.PriceURL)
	}

	chain := llm.FromSettings(logger, c.LLM())

	return &App{
		config:    c,
		logger:    logger,
		chain:     chain,
		processor: processor.New(prices, chain, c.FallbackPrice, logger),
	}, nil
}

func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	e := httpx.New(app.logger)
	httpapi.NewHandler(app.processor, app.chain.Configured(), app.logger).Register(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpx.Serve(gctx, e, app.config.EndpointAddrHTTP, app.logger)
	})
	err := g.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return err
}
