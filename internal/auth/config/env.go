package config

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// parseEnv overlays the environment variables used by the container setup.
func parseEnv(config *Config, lookup flagx.EnvLookup) {
	env := flagx.NewEnv(lookup)

	env.String(&config.EndpointAddrHTTP, "HTTP_ADDR")
	env.String(&config.EndpointAddrGRPC, "GRPC_ADDR")
	env.String(&config.DatabaseDSN, "DATABASE_URL")
	env.String(&config.SecretKey, "JWT_SECRET")
	env.String(&config.Algorithm, "JWT_ALGORITHM")
	env.Duration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_EXPIRE_MINUTES", time.Minute)
	env.Int(&config.MinPasswordLength, "MIN_PASSWORD_LENGTH")
	env.Int(&config.BcryptCost, "BCRYPT_COST")
	env.String(&config.LogLevel, "LOG_LEVEL")

	if err := env.Err(); err != nil {
		panic(err)
	}
}
