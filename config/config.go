package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Config struct {
	HTTPAddr         string
	Database         DatabaseConfig
	SeedOnStart      bool
	RabbitMQURL      string
	EventsQueue      string
	RedisURL         string
	ExportRateLimit  int
	ExportRateWindow time.Duration
	LogLevel         string
	LogFormat        string
	UnidocLicenseKey string
	// TrustedProxies lists the proxy addresses or CIDRs allowed to set
	// X-Forwarded-For. Empty means the peer address is always the client.
	TrustedProxies []string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	return load(true)
}

// LoadWithoutDatabase is Load for commands that never open the database.
func LoadWithoutDatabase() (*Config, error) {
	return load(false)
}

func load(requireDatabase bool) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			DSN:             getEnv("DB_DSN", ""),
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		EventsQueue:      getEnv("EVENTS_QUEUE", "application_stage_events"),
		RedisURL:         getEnv("REDIS_URL", ""),
		ExportRateLimit:  20,
		ExportRateWindow: time.Minute,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		UnidocLicenseKey: getEnv("UNIDOC_LICENSE_API_KEY", ""),
		TrustedProxies:   getList("TRUSTED_PROXIES"),
	}

	var err error
	if cfg.Database.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.Database.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns); err != nil {
		return nil, err
	}
	if cfg.Database.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime); err != nil {
		return nil, err
	}
	if cfg.SeedOnStart, err = getBool("SEED_ON_START", false); err != nil {
		return nil, err
	}
	if cfg.ExportRateLimit, err = getInt("EXPORT_RATE_LIMIT", cfg.ExportRateLimit); err != nil {
		return nil, err
	}
	if cfg.ExportRateWindow, err = getDuration("EXPORT_RATE_WINDOW", cfg.ExportRateWindow); err != nil {
		return nil, err
	}

	if requireDatabase {
		if cfg.Database.DSN == "" {
			return nil, fmt.Errorf("DB_DSN is not set in environment")
		}
		switch cfg.Database.Driver {
		case "mysql", "postgres", "sqlite":
		default:
			return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
		}
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
