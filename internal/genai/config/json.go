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
	flagx.Overlay(&config.LLMProviders, c.LLMProviders)
	flagx.Overlay(&config.GeminiModel, c.GeminiModel)
	flagx.Overlay(&config.GeminiBaseURL, c.GeminiBaseURL)
	flagx.Overlay(&config.OpenAIModel, c.OpenAIModel)
	flagx.Overlay(&config.OpenAIBaseURL, c.OpenAIBaseURL)
	timex.Overlay(&config.LLMTimeout, c.LLMTimeout)
}
