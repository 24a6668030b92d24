package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Backend     BackendConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Lifecycle   LifecycleConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// LifecycleConfig - intervalos del tracker de ciclo de vida
type LifecycleConfig struct {
	// StatusPollInterval - cada cuanto se consulta el trabajo activo del cliente
	StatusPollInterval time.Duration
	// ApprovalPollInterval - sondeo de aprobacion del profesional
	ApprovalPollInterval time.Duration
	// ApprovalPollMaxAttempts - tope del sondeo de aprobacion antes de rendirse
	ApprovalPollMaxAttempts int
	// ChatFinalizeAfter - cuenta regresiva de auto-finalizacion del chat
	ChatFinalizeAfter time.Duration
	// SessionCacheTTL - vida del ultimo estado clasificado en Redis
	SessionCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Carga .env si existe
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:9000/api/v1"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Issuer: getEnv("JWT_ISSUER", "manospy"),
		},
		Lifecycle: LifecycleConfig{
			StatusPollInterval:      getEnvAsDuration("LIFECYCLE_STATUS_POLL_INTERVAL", 5*time.Second),
			ApprovalPollInterval:    getEnvAsDuration("LIFECYCLE_APPROVAL_POLL_INTERVAL", 15*time.Second),
			ApprovalPollMaxAttempts: getEnvAsInt("LIFECYCLE_APPROVAL_POLL_MAX_ATTEMPTS", 40),
			ChatFinalizeAfter:       getEnvAsDuration("LIFECYCLE_CHAT_FINALIZE_AFTER", 5*time.Minute),
			SessionCacheTTL:         getEnvAsDuration("LIFECYCLE_SESSION_CACHE_TTL", 6*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret must be set")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL must be set")
	}
	if c.Lifecycle.ApprovalPollMaxAttempts <= 0 {
		return fmt.Errorf("approval poll max attempts must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
