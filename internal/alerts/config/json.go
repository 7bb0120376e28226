package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

type JsonConfig struct {
	EndpointAddrHTTP *string         `json:"endpoint_addr_http"`
	LogLevel         *string         `json:"log_level"`
	PriceURL         *string         `json:"price_url"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	FallbackPrice    *float64        `json:"fallback_price"`
	PriceS3Bucket    *string         `json:"price_s3_bucket"`
	PriceS3Key       *string         `json:"price_s3_key"`
	S3Region         *string         `json:"s3_region"`
	S3Endpoint       *string         `json:"s3_endpoint"`
	LLMProviders     *[]string       `json:"llm_providers"`
	GeminiModel      *string         `json:"gemini_model"`
	GeminiBaseURL    *string         `json:"gemini_base_url"`
	OpenAIModel      *string         `json:"openai_model"`
	OpenAIBaseURL    *string         `json:"openai_base_url"`
	LLMTimeout       *timex.Duration `json:"llm_timeout"`
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
	flagx.Overlay(&config.LogLevel, c.LogLevel)
	flagx.Overlay(&config.PriceURL, c.PriceURL)
	timex.Overlay(&config.RequestTimeout, c.RequestTimeout)
	flagx.Overlay(&config.FallbackPrice, c.FallbackPrice)
	flagx.Overlay(&config.PriceS3Bucket, c.PriceS3Bucket)
	flagx.Overlay(&config.PriceS3Key, c.PriceS3Key)
	flagx.Overlay(&config.S3Region, c.S3Region)
	flagx.Overlay(&config.S3Endpoint, c.S3Endpoint)
	flagx.Overlay(&config.LLMProviders, c.LLMProviders)
	flagx.Overlay(&config.GeminiModel, c.GeminiModel)
	flagx.Overlay(&config.GeminiBaseURL, c.GeminiBaseURL)
	flagx.Overlay(&config.OpenAIModel, c.OpenAIModel)
	flagx.Overlay(&config.OpenAIBaseURL, c.OpenAIBaseURL)
	timex.Overlay(&config.LLMTimeout, c.LLMTimeout)
}
