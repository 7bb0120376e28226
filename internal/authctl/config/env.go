package config

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

func parseEnv(config *Config, lookup flagx.EnvLookup) {
	env := flagx.NewEnv(lookup)

	env.String(&config.AuthServiceURL, "AUTH_SERVICE_URL")
	env.String(&config.AuthGRPCAddr, "AUTH_GRPC_ADDR")
	env.Duration(&config.Timeout, "AUTH_TIMEOUT", time.Second)

	if err := env.Err(); err != nil {
		panic(err)
	}
}
