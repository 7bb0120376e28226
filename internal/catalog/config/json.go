package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

type JsonConfig struct {
	EndpointAddrHTTP     *string         `json:"endpoint_addr_http"`
	DatabaseDSN          *string         `json:"database_dsn"`
	LogLevel             *string         `json:"log_level"`
	AuthServiceURL       *string         `json:"auth_service_url"`
	AuthGRPCAddr         *string         `json:"auth_grpc_addr"`
	AuthTimeout          *timex.Duration `json:"auth_timeout"`
	AIServiceURL         *string         `json:"ai_service_url"`
	AITimeout            *timex.Duration `json:"ai_timeout"`
	AIMaxAttempts        *int            `json:"ai_max_attempts"`
	AIBackoffBase        *timex.Duration `json:"ai_backoff_base"`
	AIBackoffMultiplier  *float64        `json:"ai_backoff_multiplier"`
	AIBackoffCap         *timex.Duration `json:"ai_backoff_cap"`
	AlertsWebhookURL     *string         `json:"alerts_webhook_url"`
	AlertsWebhookTimeout *timex.Duration `json:"alerts_webhook_timeout"`
	LowStockThreshold    *int            `json:"low_stock_threshold"`
	AlertWorkers         *int            `json:"alert_workers"`
	AlertQueueSize       *int            `json:"alert_queue_size"`
	AlertDrainTimeout    *timex.Duration `json:"alert_drain_timeout"`
}

func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	flagx.Overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	flagx.Overlay(&config.DatabaseDSN, c.DatabaseDSN)
	flagx.Overlay(&config.LogLevel, c.LogLevel)
	flagx.Overlay(&config.AuthServiceURL, c.AuthServiceURL)
	flagx.Overlay(&config.AuthGRPCAddr, c.AuthGRPCAddr)
	timex.Overlay(&config.AuthTimeout, c.AuthTimeout)
	flagx.Overlay(&config.AIServiceURL, c.AIServiceURL)
	timex.Overlay(&config.AITimeout, c.AITimeout)
	flagx.Overlay(&config.AIMaxAttempts, c.AIMaxAttempts)
	timex.Overlay(&config.AIBackoffBase, c.AIBackoffBase)
	flagx.Overlay(&config.AIBackoffMultiplier, c.AIBackoffMultiplier)
	timex.Overlay(&config.AIBackoffCap, c.AIBackoffCap)
	flagx.Overlay(&config.AlertsWebhookURL, c.AlertsWebhookURL)
	timex.Overlay(&config.AlertsWebhookTimeout, c.AlertsWebhookTimeout)
	flagx.Overlay(&config.LowStockThreshold, c.LowStockThreshold)
	flagx.Overlay(&config.AlertWorkers, c.AlertWorkers)
	flagx.Overlay(&config.AlertQueueSize, c.AlertQueueSize)
	timex.Overlay(&config.AlertDrainTimeout, c.AlertDrainTimeout)
}
