package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_DisabledWithParseTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskParse))
	assert.Equal(t, 6000, cfg.TaskTimeout(TaskClarify))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NUTRILOG_LLM_ENABLED", "true")
	t.Setenv("NUTRILOG_LLM_MODEL", "qwen2.5")
	t.Setenv("NUTRILOG_LLM_ENDPOINT", "http://ollama:11434")
	t.Setenv("NUTRILOG_LLM_TIMEOUT_MS", "9000")
	t.Setenv("NUTRILOG_LLM_PARSE_TIMEOUT_MS", "20000")
	t.Setenv("NUTRILOG_LLM_MAX_RETRIES", "3")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "qwen2.5", cfg.Model)
	assert.Equal(t, "http://ollama:11434", cfg.Endpoint)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 20000, cfg.TaskTimeout(TaskParse))
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("NUTRILOG_LLM_PARSE_TIMEOUT_MS", "not-a-number")
	t.Setenv("NUTRILOG_LLM_TIMEOUT_MS", "-5")
	t.Setenv("NUTRILOG_LLM_MAX_RETRIES", "-1")

	cfg := LoadConfig()

	assert.Equal(t, 15000, cfg.TaskTimeout(TaskParse))
	assert.Equal(t, 10000, cfg.TimeoutMs)
	assert.Equal(t, 1, cfg.MaxRetries)
}

func TestTaskTimeout_FallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutMs = 4321
	assert.Equal(t, 4321, cfg.TaskTimeout(TaskType("unknown")))
}
