// Package config loads process configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds PostgreSQL connection settings for the pgvector
// backend. DATABASE_URL wins over the individual fields.
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	URL      string
}

// ConnectionURL returns the effective connection string.
func (c DatabaseConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.Name)
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	Model      string
	Dimensions int
}

// IndexConfig selects the similarity index backend.
type IndexConfig struct {
	// Backend is one of "memory", "sqlite", "pgvector".
	Backend string

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string
}

// SynthesizerConfig selects the synthesis backend.
type SynthesizerConfig struct {
	// Backend is one of "heuristic", "openai", "anthropic".
	Backend string
}

// CacheConfig selects the optional embedding cache.
type CacheConfig struct {
	// Backend is one of "none", "memory", "redis".
	Backend string

	// RedisAddr is the redis host:port used by the redis backend.
	RedisAddr string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// Config is the root application configuration.
type Config struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	Database        DatabaseConfig
	Embedding       EmbeddingConfig
	Index           IndexConfig
	Synthesizer     SynthesizerConfig
	Cache           CacheConfig
	Server          ServerConfig
	Log             LogConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; a missing file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "postgres"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			URL:      os.Getenv("DATABASE_URL"),
		},
		Embedding: EmbeddingConfig{
			Model:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1536),
		},
		Index: IndexConfig{
			Backend:    getEnv("CHAINRAG_INDEX", "memory"),
			SQLitePath: getEnv("CHAINRAG_SQLITE_PATH", "chainrag.db"),
		},
		Synthesizer: SynthesizerConfig{
			Backend: getEnv("CHAINRAG_SYNTHESIZER", "heuristic"),
		},
		Cache: CacheConfig{
			Backend:   getEnv("CHAINRAG_CACHE", "none"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Server: ServerConfig{
			Addr: getEnv("CHAINRAG_ADDR", ":8000"),
		},
		Log: LogConfig{
			Level:  getEnv("CHAINRAG_LOG_LEVEL", "info"),
			Format: getEnv("CHAINRAG_LOG_FORMAT", "text"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
