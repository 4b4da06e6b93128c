package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskParse turns a free-text log entry into structured items.
	TaskParse TaskType = "parse"
	// TaskClarify phrases a follow-up question.
	TaskClarify TaskType = "clarify"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskParse:   {Temperature: 0.1, MaxTokens: 1024, TimeoutMs: 15000},
			TaskClarify: {Temperature: 0.4, MaxTokens: 256, TimeoutMs: 6000},
		},
	}
}

// LoadConfig reads NUTRILOG_LLM_* environment variables over the defaults.
// Malformed values are ignored.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("NUTRILOG_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("NUTRILOG_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("NUTRILOG_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("NUTRILOG_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if n, ok := positiveInt("NUTRILOG_LLM_TIMEOUT_MS"); ok {
		cfg.TimeoutMs = n
	}
	if v := os.Getenv("NUTRILOG_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if n, ok := positiveInt("NUTRILOG_LLM_PARSE_TIMEOUT_MS"); ok {
		tc := cfg.Tasks[TaskParse]
		tc.TimeoutMs = n
		cfg.Tasks[TaskParse] = tc
	}
	return cfg
}

// TaskTimeout returns the task-specific timeout if set, otherwise the global one.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func positiveInt(env string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(env))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
