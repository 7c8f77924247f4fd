package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	DatabaseURL string

	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool
	KnowledgeCacheTTL time.Duration
	KnowledgeFile     string

	ExternalCallTimeout time.Duration
	PrefetchTimeout     time.Duration
	SessionIdleTTL      time.Duration
	BookingHorizonDays  int

	ShopName     string
	ShopPhone    string
	ShopTimezone string

	AdminJWTSecret     string
	CORSAllowedOrigins []string
	ChatRatePerMinute  int
	ChatRateBurst      int

	// Confirmation email
	EmailProvider      string
	SendGridAPIKey     string
	SendGridFromEmail  string
	SendGridFromName   string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SESFromEmail       string

	// AWSEndpointOverride points SES at LocalStack in development.
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),
		KnowledgeCacheTTL: getEnvAsDuration("KNOWLEDGE_CACHE_TTL", 10*time.Minute),
		KnowledgeFile:     getEnv("KNOWLEDGE_FILE", ""),

		ExternalCallTimeout: getEnvAsDuration("EXTERNAL_CALL_TIMEOUT", 5*time.Second),
		PrefetchTimeout:     getEnvAsDuration("PREFETCH_TIMEOUT", 10*time.Second),
		SessionIdleTTL:      getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		BookingHorizonDays:  getEnvAsInt("BOOKING_HORIZON_DAYS", 90),

		ShopName:     getEnv("SHOP_NAME", "EliteCuts"),
		ShopPhone:    getEnv("SHOP_PHONE", "(555) 010-0199"),
		ShopTimezone: getEnv("SHOP_TIMEZONE", "America/New_York"),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		ChatRatePerMinute:  getEnvAsInt("CHAT_RATE_PER_MINUTE", 60),
		ChatRateBurst:      getEnvAsInt("CHAT_RATE_BURST", 10),

		EmailProvider:      strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:  getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:   getEnv("SENDGRID_FROM_NAME", "EliteCuts"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),

		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// Location resolves ShopTimezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ShopTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
