package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the web client.
type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Gate      GateConfig
	Reconcile ReconcileConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points at the jobs-abroad REST API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// RedisConfig holds session-store connection values. An empty Addr switches
// the session store to the in-memory backend (dev only).
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// GateConfig bounds the subscriber gate's polling budget.
type GateConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// ReconcileConfig bounds the post-payment reconciliation flow. The relative
// ordering confirm -> settle -> poll -> give up is fixed in code; only the
// delays and budgets are tunable.
type ReconcileConfig struct {
	GracePeriod    time.Duration
	SettleDelay    time.Duration
	VerifyAttempts int
	VerifyInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "jobsabroad-web"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "https://jobsabroad.onrender.com/api"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			SessionTTL: time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 720)) * time.Hour,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Gate: GateConfig{
			MaxAttempts: getEnvAsInt("GATE_MAX_ATTEMPTS", 5),
			RetryDelay:  time.Duration(getEnvAsInt("GATE_RETRY_DELAY_MS", 2000)) * time.Millisecond,
		},
		Reconcile: ReconcileConfig{
			GracePeriod:    time.Duration(getEnvAsInt("RECONCILE_GRACE_MS", 3000)) * time.Millisecond,
			SettleDelay:    time.Duration(getEnvAsInt("RECONCILE_SETTLE_MS", 1000)) * time.Millisecond,
			VerifyAttempts: getEnvAsInt("RECONCILE_VERIFY_ATTEMPTS", 8),
			VerifyInterval: time.Duration(getEnvAsInt("RECONCILE_VERIFY_INTERVAL_MS", 1500)) * time.Millisecond,
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the outbound HTTP timeout for backend calls.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
