// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port   string
	AppEnv string

	KVDriver    string
	RedisAddr   string
	RedisPrefix string
	DB          DBConfig
	SQLitePath  string

	// KafkaBroker is empty when no broker is configured; saved-month events
	// are then not published.
	KafkaBroker string

	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
	PreviewTTL     time.Duration
	MaxPreviews    int
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load applies defaults and reports every missing or invalid setting in a
// single error.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		KVDriver:    strings.ToLower(getEnv("KV_DRIVER", DriverMemory)),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPrefix: getEnv("REDIS_PREFIX", "koutuhi:"),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SQLitePath:  getEnv("SQLITE_PATH", "koutuhi.db"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
	}

	var problems []string

	var err error
	if cfg.MaxUploadBytes, err = parseInt64("MAX_UPLOAD_BYTES", 10<<20); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.RateLimitRPS, err = parseFloat("RATE_LIMIT_RPS", 1); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.RateLimitBurst, err = parseInt("RATE_LIMIT_BURST", 5); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.PreviewTTL, err = parseDuration("PREVIEW_TTL", 2*time.Hour); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.MaxPreviews, err = parseInt("MAX_PREVIEWS", 64); err != nil {
		problems = append(problems, err.Error())
	}

	var missing []string
	switch cfg.KVDriver {
	case DriverMemory, DriverSQLite:
	case DriverRedis:
		if cfg.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case DriverPostgres:
		for key, v := range map[string]string{"DB_HOST": cfg.DB.Host, "DB_USER": cfg.DB.User, "DB_NAME": cfg.DB.Name} {
			if v == "" {
				missing = append(missing, key)
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown KV_DRIVER %q", cfg.KVDriver))
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		problems = append(problems, fmt.Sprintf("required for KV_DRIVER=%s: %s", cfg.KVDriver, strings.Join(missing, ", ")))
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, v)
	}
	return n, nil
}

func parseInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, v)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, v)
	}
	return f, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, v)
	}
	return d, nil
}
