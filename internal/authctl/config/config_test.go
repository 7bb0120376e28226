package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{name: "all flags", args: []string{"authctl", "-u", "http://auth", "-g", "auth:50051", "-o", "3", "verify", "tok"},
			expected: &Config{AuthServiceURL: "http://auth", AuthGRPCAddr: "auth:50051", Timeout: 3 * time.Second}},
		{name: "defaults kept", args: []string{"authctl", "login"},
			expected: &Config{AuthServiceURL: "http://localhost:8002", Timeout: 10 * time.Second}},
		{name: "bad timeout", args: []string{"authctl", "-o", "soon"}, expectPanic: true},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{}
			cfg.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseEnvAndJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "authctl.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auth_grpc_addr":"json:50051","timeout":"2s"}`), 0o600))
	os.Args = []string{"authctl", "-c", path, "verify"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, flagx.MapEnv(map[string]string{"AUTH_SERVICE_URL": "http://env:8002"}))

	assert.Equal(t, "json:50051", cfg.AuthGRPCAddr)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "http://env:8002", cfg.AuthServiceURL)
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, []string{"verify", "tok"},
		commandArgs([]string{"-u", "http://auth", "verify", "-config", "x.json", "tok"}))
	assert.Equal(t, []string{"login"}, commandArgs([]string{"--g", "a:1", "login"}))
	assert.Empty(t, commandArgs(nil))
}
