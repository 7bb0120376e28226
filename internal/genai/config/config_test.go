package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, ":8001", c.EndpointAddrHTTP)
	assert.Equal(t, []string{"gemini", "openai"}, c.LLM().Order)
	assert.Equal(t, 30*time.Second, c.LLM().Timeout)
}

func TestParseEnv(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	parseEnv(c, flagx.MapEnv(map[string]string{
		"LLM_PROVIDERS":   "openai",
		"GOOGLE_API_KEY":  "g-key",
		"OPENAI_BASE_URL": "http://llm.local/v1",
		"LLM_TIMEOUT":     "5",
	}))

	s := c.LLM()
	assert.Equal(t, []string{"openai"}, s.Order)
	assert.Equal(t, "g-key", s.GoogleAPIKey)
	assert.Equal(t, "http://llm.local/v1", s.OpenAIBaseURL)
	assert.Equal(t, 5*time.Second, s.Timeout)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	c := &Config{}
	require.Panics(t, func() {
		parseEnv(c, flagx.MapEnv(map[string]string{"LLM_TIMEOUT": "soon"}))
	})
}

func TestParseFlagsAndJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "genai.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"openai_model":"gpt-4.1","llm_timeout":"45s"}`), 0o600))

	os.Args = []string{"genai", "-c", path, "-a", ":9001", "-t", "12"}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)
	assert.Equal(t, "gpt-4.1", c.OpenAIModel)
	assert.Equal(t, 45*time.Second, c.LLMTimeout)

	parseFlags(c)
	assert.Equal(t, ":9001", c.EndpointAddrHTTP)
	assert.Equal(t, 12*time.Second, c.LLMTimeout)
}
