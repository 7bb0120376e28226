// Package config loads authctl settings: defaults, then an optional JSON
// file (-c or -config), then environment variables, then flags.
//
//	{
//	  "auth_service_url": "http://localhost:8002",
//	  "auth_grpc_addr": "localhost:50051",
//	  "timeout": "10s"
//	}
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

type Config struct {
	AuthServiceURL string
	// AuthGRPCAddr switches verify to the gRPC endpoint when set.
	AuthGRPCAddr string
	Timeout      time.Duration
}

func (c *Config) LoadDefaults() {
	c.AuthServiceURL = "http://localhost:8002"
	c.AuthGRPCAddr = ""
	c.Timeout = 10 * time.Second
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, flagx.OSEnv)
	parseFlags(cfg)
	return cfg
}

// valueFlags take one argument each.
var valueFlags = []string{"-u", "-g", "-o", "-c", "-config"}

// Command returns the arguments left after removing the flags parsed by
// LoadConfig, i.e. the subcommand and its operands.
func Command() []string {
	return commandArgs(os.Args[1:])
}

func commandArgs(args []string) []string {
	skip := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		skip[f] = struct{}{}
		skip["-"+f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if _, ok := skip[a]; ok {
			i++
			continue
		}
		if len(a) > 1 && a[0] == '-' {
			continue
		}
		out = append(out, a)
	}
	return out
}
