package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Cache    CacheConfig
	Events   EventsConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WorkerLogFilePath  string
	CorsAllowedOrigins string
	DefaultCurrency    string
}

type DatabaseConfig struct {
	// Empty means the in-memory store
	Connection string
}

type AuthConfig struct {
	// HS256 secret shared with the auth provider
	JwtSecret string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type CacheConfig struct {
	Driver   string // memory | redis
	RedisURL string
	TTL      time.Duration
}

type EventsConfig struct {
	NatsEnabled        bool
	NatsURL            string
	BreakerMaxFailures int
	BreakerTimeout     time.Duration
}

type WorkerConfig struct {
	Enabled            bool
	Interval           time.Duration
	ReminderWindowDays int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			WorkerLogFilePath:  getEnv("WORKER_LOG_FILE_PATH", "worker.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			DefaultCurrency:    strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "SubTracker"),
		},
		Cache: CacheConfig{
			Driver:   getEnv("CACHE_DRIVER", "memory"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			TTL:      getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		Events: EventsConfig{
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			BreakerMaxFailures: getEnvAsInt("NATS_BREAKER_MAX_FAILURES", 5),
			BreakerTimeout:     getEnvAsDuration("NATS_BREAKER_TIMEOUT", 30*time.Second),
		},
		Worker: WorkerConfig{
			Enabled:            getEnvAsBool("WORKER_ENABLED", true),
			Interval:           getEnvAsDuration("WORKER_INTERVAL", time.Hour),
			ReminderWindowDays: getEnvAsInt("REMINDER_WINDOW_DAYS", 3),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesMemoryStore reports whether no database is configured.
func (c *Config) UsesMemoryStore() bool {
	return c.Database.Connection == ""
}

// Validate rejects settings the server must not start with.
// The in-memory store is single process and loses data on restart.
func (c *Config) Validate() error {
	if c.IsProduction() && c.UsesMemoryStore() {
		return errors.New("DB_CONNECTION_STRING is required in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
