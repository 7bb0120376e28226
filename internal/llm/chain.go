package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// Chain asks each provider in order and returns the first completion.
// The order is fixed when the chain is built.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    logging.Logger
}

// NewChain builds a chain. timeout bounds each provider call; zero means
// no per-call bound beyond ctx.
func NewChain(logger logging.Logger, timeout time.Duration, providers ...Provider) *Chain {
	return &Chain{providers: providers, timeout: timeout, logger: logger.With("module", "llm")}
}

func (c *Chain) Configured() bool { return len(c.providers) > 0 }

// Names lists provider names in order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Model reports the model of the first provider, or "not_configured".
func (c *Chain) Model() string {
	if len(c.providers) == 0 {
		return "not_configured"
	}
	return c.providers[0].Model()
}

// Generate returns ErrNotConfigured for an empty chain, otherwise the first
// successful completion or all provider errors joined.
func (c *Chain) Generate(ctx context.Context, p Prompt) (Completion, error) {
	if len(c.providers) == 0 {
		return Completion{}, ErrNotConfigured
	}

	var errs []error
	for _, prov := range c.providers {
		out, err := c.call(ctx, prov, p)
		if err == nil {
			return out, nil
		}
		c.logger.Warn(ctx, "llm provider failed", "provider", prov.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", prov.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return Completion{}, errors.Join(errs...)
}

func (c *Chain) call(ctx context.Context, prov Provider, p Prompt) (Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	out, err := prov.Generate(ctx, p)
	if err != nil {
		return Completion{}, err
	}
	if strings.TrimSpace(out.Text) == "" {
		return Completion{}, ErrEmptyCompletion
	}
	if out.Provider == "" {
		out.Provider = prov.Name()
	}
	return out, nil
}
