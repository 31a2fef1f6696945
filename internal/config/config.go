package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"todo_app/internal/logger"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppPort       string
	StorageDriver string
	DataPath      string // sqlite file
	DatabaseURL   string // postgres dsn

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit  int
	APIRateWindow time.Duration

	LogLevel      string
	LogJSON       bool
	AllowedOrigin string
}

// Load reads .env (if any) and the process environment. Invalid settings are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromLookup(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromLookup builds a Config from getenv, applying defaults.
func FromLookup(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppPort:       getenv("APP_PORT"),
		StorageDriver: strings.ToLower(strings.TrimSpace(getenv("STORAGE_DRIVER"))),
		DataPath:      getenv("DATA_PATH"),
		DatabaseURL:   getenv("DATABASE_URL"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		LogLevel:      getenv("LOG_LEVEL"),
		LogJSON:       getenv("LOG_JSON") == "true",
		AllowedOrigin: getenv("ALLOWED_ORIGIN"),
		APIRateLimit:  120,
		APIRateWindow: time.Minute,
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = DriverSQLite
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "todos.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	switch cfg.StorageDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set (required by STORAGE_DRIVER=postgres)")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("REDIS_DB must be a non-negative integer, got %q", v)
		}
		cfg.RedisDB = n
	}

	if v := getenv("API_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("API_RATE_LIMIT must be a positive integer, got %q", v)
		}
		cfg.APIRateLimit = n
	}

	if v := getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("API_RATE_WINDOW_SECONDS must be a positive integer, got %q", v)
		}
		cfg.APIRateWindow = time.Duration(n) * time.Second
	}

	return cfg, nil
}
