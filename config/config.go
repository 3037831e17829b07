package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Environment string
	PublicURL   string

	// Redis configuration
	RedisURL string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubAdminChannel string

	// Telegram configuration
	TelegramBotToken string
	TelegramChatID   int64

	// Agency follow-up channels
	AgencyName     string
	AgencyEmail    string
	AgencyWhatsApp string

	// Submission configuration
	IdempotencyTTL     time.Duration
	SubmitRateLimit    int
	SubmitRateWindow   time.Duration
	SubmitRetryBackoff time.Duration

	// Monitoring
	EnableMetrics   bool
	MetricsInterval time.Duration
}

// LoadConfig reads the process environment. A .env file in the working
// directory is loaded first when present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),
		PublicURL:   getEnv("PUBLIC_URL", "http://127.0.0.1:8090"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubAdminChannel: getEnv("PUBNUB_ADMIN_CHANNEL", "admin-notifications"),

		// Telegram
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvAsInt64("TELEGRAM_CHAT_ID", 0),

		// Agency
		AgencyName:     getEnv("AGENCY_NAME", "Wasturwan Travels"),
		AgencyEmail:    getEnv("AGENCY_EMAIL", "wasturwantravels@gmail.com"),
		AgencyWhatsApp: getEnv("AGENCY_WHATSAPP", "917006594976"),

		// Submissions
		IdempotencyTTL:     getEnvAsDuration("IDEMPOTENCY_TTL", "24h"),
		SubmitRateLimit:    getEnvAsInt("SUBMIT_RATE_LIMIT", 10),
		SubmitRateWindow:   getEnvAsDuration("SUBMIT_RATE_WINDOW", "1m"),
		SubmitRetryBackoff: getEnvAsDuration("SUBMIT_RETRY_BACKOFF", "250ms"),

		// Monitoring
		EnableMetrics:   getEnvAsBool("ENABLE_METRICS", true),
		MetricsInterval: getEnvAsDuration("METRICS_INTERVAL", "30s"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
