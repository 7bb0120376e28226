package config

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

func parseEnv(config *Config, lookup flagx.EnvLookup) {
	env := flagx.NewEnv(lookup)

	env.String(&config.EndpointAddrHTTP, "HTTP_ADDR")
	env.String(&config.DatabaseDSN, "DATABASE_URL")
	env.String(&config.LogLevel, "LOG_LEVEL")

	env.String(&config.AuthServiceURL, "AUTH_SERVICE_URL")
	env.String(&config.AuthGRPCAddr, "AUTH_GRPC_ADDR")
	env.Duration(&config.AuthTimeout, "AUTH_TIMEOUT", time.Second)

	env.String(&config.AIServiceURL, "IA_SERVICE_URL")
	env.Duration(&config.AITimeout, "IA_TIMEOUT", time.Second)
	env.Int(&config.AIMaxAttempts, "IA_MAX_ATTEMPTS")
	env.Duration(&config.AIBackoffBase, "IA_BACKOFF_BASE", time.Second)
	env.Float(&config.AIBackoffMultiplier, "IA_BACKOFF_MULTIPLIER")
	env.Duration(&config.AIBackoffCap, "IA_BACKOFF_CAP", time.Second)

	env.String(&config.AlertsWebhookURL, "ALERTS_WEBHOOK_URL")
	env.Duration(&config.AlertsWebhookTimeout, "ALERTS_WEBHOOK_TIMEOUT", time.Second)
	env.Int(&config.LowStockThreshold, "LOW_STOCK_THRESHOLD")
	env.Int(&config.AlertWorkers, "ALERT_WORKERS")
	env.Int(&config.AlertQueueSize, "ALERT_QUEUE_SIZE")
	env.Duration(&config.AlertDrainTimeout, "ALERT_DRAIN_TIMEOUT", time.Second)

	if err := env.Err(); err != nil {
		panic(err)
	}
}
