package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/backoff"
	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, 5*time.Second, c.AuthTimeout)
	assert.Equal(t, 35*time.Second, c.AITimeout)
	assert.Equal(t, 10, c.LowStockThreshold)
	assert.Equal(t, 4, c.AlertWorkers)
	assert.Equal(t, 64, c.AlertQueueSize)
	assert.Equal(t, backoff.Default(), c.BackoffPolicy())
	assert.Empty(t, c.AuthGRPCAddr)
}

func TestParseEnv(t *testing.T) {
	c := defaults()
	parseEnv(c, flagx.MapEnv(map[string]string{
		"AUTH_SERVICE_URL":      "http://localhost:8002",
		"AUTH_TIMEOUT":          "2",
		"IA_TIMEOUT":            "1m",
		"IA_MAX_ATTEMPTS":       "5",
		"IA_BACKOFF_MULTIPLIER": "0.5",
		"LOW_STOCK_THRESHOLD":   "3",
		"ALERT_QUEUE_SIZE":      "8",
	}))

	assert.Equal(t, "http://localhost:8002", c.AuthServiceURL)
	assert.Equal(t, 2*time.Second, c.AuthTimeout)
	assert.Equal(t, time.Minute, c.AITimeout)
	assert.Equal(t, 5, c.AIMaxAttempts)
	assert.Equal(t, 0.5, c.AIBackoffMultiplier)
	assert.Equal(t, 3, c.LowStockThreshold)
	assert.Equal(t, 8, c.AlertQueueSize)
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	require.Panics(t, func() {
		parseEnv(defaults(), flagx.MapEnv(map[string]string{"LOW_STOCK_THRESHOLD": "many"}))
	})
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"catalog",
		"-a", ":9000", "-u", "http://a", "-g", "auth:50051", "-o", "3", "-i", "http://ai",
		"-r", "60", "-w", "http://hook", "-x", "4", "-k", "7", "-n", "2", "-q", "16", "-l", "debug",
	}

	c := defaults()
	parseFlags(c)

	want := defaults()
	want.EndpointAddrHTTP = ":9000"
	want.AuthServiceURL = "http://a"
	want.AuthGRPCAddr = "auth:50051"
	want.AuthTimeout = 3 * time.Second
	want.AIServiceURL = "http://ai"
	want.AITimeout = time.Minute
	want.AlertsWebhookURL = "http://hook"
	want.AlertsWebhookTimeout = 4 * time.Second
	want.LowStockThreshold = 7
	want.AlertWorkers = 2
	want.AlertQueueSize = 16
	want.LogLevel = "debug"

	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseFlags_KeepsDurationsWhenAbsent(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"catalog"}

	c := defaults()
	c.AuthTimeout = 1500 * time.Millisecond
	parseFlags(c)
	assert.Equal(t, 1500*time.Millisecond, c.AuthTimeout)
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	data, err := json.Marshal(map[string]any{
		"auth_timeout":        "750ms",
		"ai_backoff_cap":      "3s",
		"low_stock_threshold": 2,
		"database_dsn":        "postgres://json",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	os.Args = []string{"catalog", "-c", path}
	c := defaults()
	parseJson(c)

	assert.Equal(t, 750*time.Millisecond, c.AuthTimeout)
	assert.Equal(t, 3*time.Second, c.AIBackoffCap)
	assert.Equal(t, 2, c.LowStockThreshold)
	assert.Equal(t, "postgres://json", c.DatabaseDSN)
	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
}
