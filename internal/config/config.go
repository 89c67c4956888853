package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	AppPort    string
	AppVersion string

	// Task store
	StoreDriver     string
	DatabaseURL     string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Rate limiting on /api, Redis when REDIS_ADDR is set, in-process otherwise
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow time.Duration

	AllowedOrigin   string
	LogLevel        string
	LogJSON         bool
	ShutdownTimeout time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:         getEnvString("APP_PORT", "5001"),
		AppVersion:      getEnvString("APP_VERSION", "dev"),
		StoreDriver:     strings.ToLower(getEnvString("STORE_DRIVER", DriverMemory)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnvString("SQLITE_PATH", "kanban.db"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   getEnvString("MONGO_DATABASE", "kanban"),
		MongoCollection: getEnvString("MONGO_COLLECTION", "tasks"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		APIRateLimit:    getEnvInt("API_RATE_LIMIT", 120),
		APIRateWindow:   time.Duration(getEnvInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AllowedOrigin:   getEnvString("ALLOWED_ORIGIN", "http://localhost:5173"),
		LogLevel:        getEnvString("LOG_LEVEL", "info"),
		LogJSON:         os.Getenv("LOG_JSON") == "true",
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Address returns the listen address
func (c *Config) Address() string {
	return ":" + c.AppPort
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for store driver %q", c.StoreDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q: must be memory, postgres, sqlite or mongo", c.StoreDriver)
	}

	if n, err := strconv.Atoi(c.AppPort); err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid APP_PORT %q", c.AppPort)
	}
	if c.APIRateLimit < 1 {
		return fmt.Errorf("API_RATE_LIMIT must be positive, got %d", c.APIRateLimit)
	}
	if c.APIRateWindow <= 0 {
		return fmt.Errorf("API_RATE_WINDOW_SECONDS must be positive")
	}
	return nil
}

func getEnvString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
