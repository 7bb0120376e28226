package config

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

func parseEnv(config *Config, lookup flagx.EnvLookup) {
	env := flagx.NewEnv(lookup)

	env.String(&config.EndpointAddrHTTP, "HTTP_ADDR")
	env.String(&config.LogLevel, "LOG_LEVEL")

	env.String(&config.PriceURL, "MOCK_PRICE_URL")
	env.Duration(&config.RequestTimeout, "REQUEST_TIMEOUT", time.Second)
	env.Float(&config.FallbackPrice, "FALLBACK_PRICE")

	env.String(&config.PriceS3Bucket, "PRICE_S3_BUCKET")
	env.String(&config.PriceS3Key, "PRICE_S3_KEY")
	env.String(&config.S3Region, "S3_REGION")
	env.String(&config.S3Endpoint, "S3_ENDPOINT")
	env.String(&config.S3AccessKey, "S3_ACCESS_KEY")
	env.String(&config.S3SecretKey, "S3_SECRET_KEY")

	env.List(&config.LLMProviders, "LLM_PROVIDERS")
	env.String(&config.GoogleAPIKey, "GOOGLE_API_KEY")
	env.String(&config.GeminiModel, "GEMINI_MODEL")
	env.String(&config.GeminiBaseURL, "GEMINI_BASE_URL")
	env.String(&config.OpenAIAPIKey, "OPENAI_API_KEY")
	env.String(&config.OpenAIModel, "OPENAI_MODEL")
	env.String(&config.OpenAIBaseURL, "OPENAI_BASE_URL")
	env.Duration(&config.LLMTimeout, "LLM_TIMEOUT", time.Second)

	if err := env.Err(); err != nil {
		panic(err)
	}
}
