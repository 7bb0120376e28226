package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

type JsonConfig struct {
	AuthServiceURL *string         `json:"auth_service_url"`
	AuthGRPCAddr   *string         `json:"auth_grpc_addr"`
	Timeout        *timex.Duration `json:"timeout"`
}

func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	flagx.Overlay(&cfg.AuthServiceURL, jc.AuthServiceURL)
	flagx.Overlay(&cfg.AuthGRPCAddr, jc.AuthGRPCAddr)
	timex.Overlay(&cfg.Timeout, jc.Timeout)
}
