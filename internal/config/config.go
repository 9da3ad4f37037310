package config

import (
	"fmt"
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
	SMTP     SMTPConfig
	Razorpay RazorpayConfig
	Billing  BillingConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	BodyLimit          int
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver     string // StoreDriverPostgres or StoreDriverMemory
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	AlertEmail string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.AlertEmail != ""
}

type RazorpayConfig struct {
	WebhookSecret         string
	KeyID                 string
	KeySecret             string
	BaseURL               string
	Currency              string
	CustomerEmailDomain   string
	LinkDescriptionPrefix string
}

type BillingConfig struct {
	Timezone        string
	StoreTimeout    time.Duration
	UpstreamTimeout time.Duration
	StatusCacheTTL  time.Duration
}

type AuthConfig struct {
	AdminJWTSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	driver, err := parseStoreDriver(getEnv("STORE_DRIVER", StoreDriverPostgres))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("PORT", "3000"),
			Environment:        getEnv("APP_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			BodyLimit:          getEnvAsInt("BODY_LIMIT_BYTES", 1<<20),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Driver:     driver,
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_USER", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_FROM", "Billing Alerts"),
			AlertEmail: getEnv("ALERT_EMAIL", ""),
		},
		Razorpay: RazorpayConfig{
			WebhookSecret:         getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
			KeyID:                 getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:             getEnv("RAZORPAY_KEY_SECRET", ""),
			BaseURL:               getEnv("RAZORPAY_API_BASE_URL", "https://api.razorpay.com"),
			Currency:              getEnv("RAZORPAY_CURRENCY", "INR"),
			CustomerEmailDomain:   getEnv("CUSTOMER_EMAIL_DOMAIN", "subscribers.mahal.app"),
			LinkDescriptionPrefix: getEnv("LINK_DESCRIPTION_PREFIX", "Mahal"),
		},
		Billing: BillingConfig{
			Timezone:        getEnv("BILLING_TIMEZONE", "UTC"),
			StoreTimeout:    getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
			UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second),
			StatusCacheTTL:  getEnvAsDuration("STATUS_CACHE_TTL", time.Minute),
		},
		Auth: AuthConfig{
			AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
	}
}

func parseStoreDriver(raw string) (string, error) {
	switch driver := strings.ToLower(strings.TrimSpace(raw)); driver {
	case StoreDriverPostgres, StoreDriverMemory:
		return driver, nil
	default:
		return "", fmt.Errorf("unsupported STORE_DRIVER %q (want %q or %q)", raw, StoreDriverPostgres, StoreDriverMemory)
	}
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
