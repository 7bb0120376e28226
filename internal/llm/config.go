package llm

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// Settings carries the credentials and models of every supported provider
// plus the preferred order.
type Settings struct {
	Order         []string
	GoogleAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	Timeout       time.Duration
}

// DefaultOrder prefers Gemini and falls back to OpenAI.
func DefaultOrder() []string { return []string{"gemini", "openai"} }

// FromSettings builds a chain holding, in s.Order, every provider whose
// credential is present. Unknown names are logged and skipped.
func FromSettings(logger logging.Logger, s Settings) *Chain {
	order := s.Order
	if len(order) == 0 {
		order = DefaultOrder()
	}

	ctx := context.Background()

	var providers []Provider
	seen := map[string]bool{}
	for _, name := range order {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "google" {
			name = "gemini"
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "gemini":
			if s.GoogleAPIKey != "" {
				g, err := NewGemini(ctx, s.GoogleAPIKey, s.GeminiModel, s.GeminiBaseURL, s.Timeout)
				if err != nil {
					logger.Error(ctx, "gemini client", "error", err)
					continue
				}
				providers = append(providers, g)
			}
		case "openai":
			if s.OpenAIAPIKey != "" {
				providers = append(providers, NewOpenAI(s.OpenAIAPIKey, s.OpenAIModel, s.OpenAIBaseURL))
			}
		default:
			logger.Warn(ctx, "unknown llm provider ignored", "provider", name)
		}
	}

	chain := NewChain(logger, s.Timeout, providers...)
	if chain.Configured() {
		logger.Info(ctx, "llm configured", "providers", strings.Join(chain.Names(), ","), "model", chain.Model())
	} else {
		logger.Warn(ctx, "llm not configured")
	}
	return chain
}
