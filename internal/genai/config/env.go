package config

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

func parseEnv(config *Config, lookup flagx.EnvLookup) {
	env := flagx.NewEnv(lookup)

	env.String(&config.EndpointAddrHTTP, "HTTP_ADDR")
	env.String(&config.LogLevel, "LOG_LEVEL")

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
