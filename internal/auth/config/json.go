package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys keep
// the current value.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	Algorithm                   *string         `json:"algorithm"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	MinPasswordLength           *int            `json:"min_password_length"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson overlays values from the file given with -c/-config. Read and
// decode errors panic: a broken config file must stop startup.
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
	flagx.Overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	flagx.Overlay(&config.DatabaseDSN, c.DatabaseDSN)
	flagx.Overlay(&config.SecretKey, c.SecretKey)
	flagx.Overlay(&config.Algorithm, c.Algorithm)
	timex.Overlay(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	flagx.Overlay(&config.MinPasswordLength, c.MinPasswordLength)
	flagx.Overlay(&config.BcryptCost, c.BcryptCost)
	flagx.Overlay(&config.LogLevel, c.LogLevel)
}
