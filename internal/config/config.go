package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	LLM       LLMConfig
	Knowledge KnowledgeConfig
	Pipeline  PipelineConfig
	Audit     AuditConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	APIKeyHeader string
}

type LLMConfig struct {
	Provider       string // "openai", "anthropic" or "ollama"
	Model          string
	OpenAIKey      string
	AnthropicKey   string
	OllamaURL      string
	RequestTimeout time.Duration
	MaxRetries     int
	RatePerSecond  float64
	RateBurst      int
}

type KnowledgeConfig struct {
	TokenBudget     int
	CorpusDir       string // static YAML fallback corpus
	RefreshInterval time.Duration
}

type PipelineConfig struct {
	MaxRegenerations int
}

type AuditConfig struct {
	Retention string // "hash" or "full"
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	timeoutSec, err := getEnvInt("LLM_TIMEOUT_SECONDS", 120)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT_SECONDS: %w", err)
	}

	rateBurst, err := getEnvInt("LLM_RATE_BURST", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_RATE_BURST: %w", err)
	}

	ratePerSec, err := getEnvFloat("LLM_RATE_PER_SECOND", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_RATE_PER_SECOND: %w", err)
	}

	tokenBudget, err := getEnvInt("KNOWLEDGE_TOKEN_BUDGET", 4000)
	if err != nil {
		return nil, fmt.Errorf("invalid KNOWLEDGE_TOKEN_BUDGET: %w", err)
	}

	refreshSec, err := getEnvInt("KNOWLEDGE_REFRESH_SECONDS", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid KNOWLEDGE_REFRESH_SECONDS: %w", err)
	}

	maxRegen, err := getEnvInt("PIPELINE_MAX_REGENERATIONS", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_MAX_REGENERATIONS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			APIKeyHeader: getEnv("API_KEY_HEADER", "X-API-Key"),
		},
		LLM: LLMConfig{
			Provider:       getEnv("LLM_PROVIDER", "openai"),
			Model:          getEnv("LLM_MODEL", "gpt-4o"),
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434"),
			RequestTimeout: time.Duration(timeoutSec) * time.Second,
			MaxRetries:     maxRetries,
			RatePerSecond:  ratePerSec,
			RateBurst:      rateBurst,
		},
		Knowledge: KnowledgeConfig{
			TokenBudget:     tokenBudget,
			CorpusDir:       getEnv("KNOWLEDGE_CORPUS_DIR", "corpus"),
			RefreshInterval: time.Duration(refreshSec) * time.Second,
		},
		Pipeline: PipelineConfig{
			MaxRegenerations: maxRegen,
		},
		Audit: AuditConfig{
			Retention: getEnv("AUDIT_RETENTION", "hash"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "anthropic":
		if c.LLM.AnthropicKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case "ollama":
		// local server needs no credentials
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.Audit.Retention != "hash" && c.Audit.Retention != "full" {
		return fmt.Errorf(`AUDIT_RETENTION must be "hash" or "full"`)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
