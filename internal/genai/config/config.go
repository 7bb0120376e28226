// Package config handles configuration of the genai service.
package config

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/llm"
)

type Config struct {
	EndpointAddrHTTP string
	LogLevel         string

	LLMProviders  []string
	GoogleAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	LLMTimeout    time.Duration
}

func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8001"
	c.LogLevel = "info"

	c.LLMProviders = llm.DefaultOrder()
	c.GeminiModel = "gemini-flash-latest"
	c.OpenAIModel = "gpt-4o-mini"
	c.LLMTimeout = 30 * time.Second
}

func (c *Config) LLM() llm.Settings {
	return llm.Settings{
		Order:         c.LLMProviders,
		GoogleAPIKey:  c.GoogleAPIKey,
		GeminiModel:   c.GeminiModel,
		GeminiBaseURL: c.GeminiBaseURL,
		OpenAIAPIKey:  c.OpenAIAPIKey,
		OpenAIModel:   c.OpenAIModel,
		OpenAIBaseURL: c.OpenAIBaseURL,
		Timeout:       c.LLMTimeout,
	}
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, flagx.OSEnv)
	parseFlags(cfg)
	return cfg
}
