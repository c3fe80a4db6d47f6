package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port          string
	Env           string
	StorageDriver string
	DataDir       string
	SQLitePath    string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by user) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.StorageDriver = getEnv("STORAGE_DRIVER", "file")
	cfg.DataDir = getEnv("DATA_DIR", "./data")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "./confeitaria.db")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
