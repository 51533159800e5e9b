package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env       string
	Port      string
	PublicURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Telegram
	TelegramToken         string
	TelegramAPIURL        string
	TelegramWebhookSecret string

	// Max
	MaxToken         string
	MaxAPIURL        string
	MaxWebhookSecret string

	// Linking
	LinkTokenTTL       time.Duration
	TokenPurgeInterval time.Duration

	// Notifications
	NotifyConcurrency     int
	NotifyPerRecipientTTL time.Duration
	NotifyBatchTTL        time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Env:       getEnv("ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		PublicURL: getEnv("PUBLIC_URL", ""),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "shked"),
		DBPassword: getEnv("DB_PASSWORD", "shked"),
		DBName:     getEnv("DB_NAME", "shked"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Telegram
		TelegramToken:         getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:        getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		TelegramWebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),

		// Max
		MaxToken:         getEnv("MAX_BOT_TOKEN", ""),
		MaxAPIURL:        getEnv("MAX_API_URL", "https://botapi.max.ru"),
		MaxWebhookSecret: getEnv("MAX_WEBHOOK_SECRET", ""),

		NotifyConcurrency: getEnvInt("NOTIFY_CONCURRENCY", 8),
	}

	config.JWTExpirationDur = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.LinkTokenTTL = getEnvDuration("LINK_TOKEN_TTL", 15*time.Minute)
	config.TokenPurgeInterval = getEnvDuration("TOKEN_PURGE_INTERVAL", time.Hour)
	config.NotifyPerRecipientTTL = getEnvDuration("NOTIFY_RECIPIENT_TIMEOUT", 10*time.Second)
	config.NotifyBatchTTL = getEnvDuration("NOTIFY_BATCH_TIMEOUT", 5*time.Minute)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses a positive integer variable, falling back on bad input.
func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration parses a time.Duration variable, falling back on bad input.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
