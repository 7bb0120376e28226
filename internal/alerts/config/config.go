// Package config handles configuration of the alerts service.
package config

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/alerts/pricing"
	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/llm"
)

type Config struct {
	EndpointAddrHTTP string
	LogLevel         string

	// PriceURL is used unless PriceS3Bucket is set.
	PriceURL       string
	RequestTimeout time.Duration
	FallbackPrice  float64

	PriceS3Bucket string
	PriceS3Key    string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string

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
	c.EndpointAddrHTTP = ":8003"
	c.LogLevel = "info"

	c.PriceURL = "https://dummyjson.com/products/1"
	c.RequestTimeout = 10 * time.Second
	c.FallbackPrice = pricing.DefaultFallbackPrice

	c.PriceS3Key = "price.json"

	c.LLMProviders = llm.DefaultOrder()
	c.GeminiModel = "gemini-flash-latest"
	c.OpenAIModel = "gpt-4o-mini"
	c.LLMTimeout = 30 * time.Second
}

func (c *Config) S3() pricing.S3Settings {
	return pricing.S3Settings{
		Bucket:    c.PriceS3Bucket,
		Key:       c.PriceS3Key,
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}
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
