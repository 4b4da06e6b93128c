// Package config resolves runtime settings from the environment, after
// loading .env and .env.local from the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/nutrilog/internal/intelligence"
	"github.com/alexanderramin/nutrilog/internal/llm"
	"github.com/joho/godotenv"
)

type StoreBackend string

const (
	StoreSQLite StoreBackend = "sqlite"
	StoreMongo  StoreBackend = "mongo"
)

type Config struct {
	Store         StoreBackend
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
	CacheTTL      time.Duration
	LogLevel      string
	LogFormat     string
	SeedTemplates string
	LLM           llm.LLMConfig
}

// ClarificationThreshold is the score below which responses ask a follow-up.
// It is fixed and not configurable.
func (Config) ClarificationThreshold() float64 {
	return intelligence.ClarificationThreshold
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	path := filepath.Join(".nutrilog", "nutrilog.db")
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, path)
	}
	return Config{
		Store:         StoreSQLite,
		SQLitePath:    path,
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "nutrilog",
		CacheTTL:      300 * time.Second,
		LogLevel:      "info",
		LogFormat:     "text",
		LLM:           llm.DefaultConfig(),
	}
}

// LoadDotenv loads dir/.env without overriding the environment, then
// dir/.env.local overriding it. Missing files are skipped.
func LoadDotenv(dir string) error {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	if err := godotenv.Overload(filepath.Join(dir, ".env.local")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env.local: %w", err)
	}
	return nil
}

// Load applies dotenv files from dir and NUTRILOG_* variables over Default.
// Every invalid value is reported.
func Load(dir string) (Config, error) {
	cfg := Default()
	if err := LoadDotenv(dir); err != nil {
		return cfg, err
	}

	var problems []error
	if v, ok := lookup("NUTRILOG_STORE"); ok {
		switch b := StoreBackend(strings.ToLower(v)); b {
		case StoreSQLite, StoreMongo:
			cfg.Store = b
		default:
			problems = append(problems, fmt.Errorf("NUTRILOG_STORE %q must be sqlite or mongo", v))
		}
	}
	if v, ok := lookup("NUTRILOG_DB"); ok {
		cfg.SQLitePath = v
	}
	if v, ok := lookup("NUTRILOG_MONGO_URI"); ok {
		cfg.MongoURI = v
	}
	if v, ok := lookup("NUTRILOG_MONGO_DATABASE"); ok {
		cfg.MongoDatabase = v
	}
	if v, ok := lookup("NUTRILOG_CACHE_TTL"); ok {
		ttl, err := parseTTL(v)
		if err != nil {
			problems = append(problems, fmt.Errorf("NUTRILOG_CACHE_TTL: %w", err))
		} else {
			cfg.CacheTTL = ttl
		}
	}
	if v, ok := lookup("NUTRILOG_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("NUTRILOG_LOG_FORMAT"); ok {
		switch f := strings.ToLower(v); f {
		case "text", "json":
			cfg.LogFormat = f
		default:
			problems = append(problems, fmt.Errorf("NUTRILOG_LOG_FORMAT %q must be text or json", v))
		}
	}
	if v, ok := lookup("NUTRILOG_SEED_TEMPLATES"); ok {
		cfg.SeedTemplates = v
	}
	cfg.LLM = llm.LoadConfig()

	return cfg, errors.Join(problems...)
}

// parseTTL accepts a Go duration ("5m") or a bare number of seconds.
func parseTTL(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("%q must be positive", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%q is neither seconds nor a duration", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%q must be positive", v)
	}
	return d, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
