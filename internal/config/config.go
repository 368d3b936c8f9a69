package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	CacheDir          string
	DatabaseDSN       string
	SQLitePath        string
	TemplateCacheTTL  time.Duration
	ImageFetchTimeout time.Duration
	BatchLimit        int
	LogLevel          string
	LogFormat         string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:              getEnv("PORT", "3000"),
		CacheDir:          getEnv("CACHE_DIR", "/tmp/badge-cache"),
		DatabaseDSN:       getEnv("DATABASE_DSN", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "templates.db"),
		TemplateCacheTTL:  getDuration("TEMPLATE_CACHE_TTL", 5*time.Minute),
		ImageFetchTimeout: getDuration("IMAGE_FETCH_TIMEOUT", 5*time.Second),
		BatchLimit:        getInt("BATCH_LIMIT", 500),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
			return def
		}
		return n
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
			return def
		}
		return d
	}
	return def
}
