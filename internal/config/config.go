package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Deals provider
	ProviderBaseURL string
	ProviderTimeout time.Duration
	PacingDelay     time.Duration

	// Persistence
	DBPath    string
	RedisAddr string // empty = local-only mode

	// User
	UserID      string
	UserEmail   string
	DisplayName string

	// Mail transport
	MailServerToken string
	MailFrom        string
	MailAPIURL      string

	// Telegram transport
	TelegramBotToken string
	TelegramChatID   int64

	// Reconciliation
	ReconcileInterval time.Duration

	// Display
	Currency string // EUR or USD
	Locale   string

	// Observability
	LogLevel    string
	MetricsPort int
}

func Load() *Config {
	return &Config{
		// Deals provider
		ProviderBaseURL: strings.TrimSuffix(getEnv("PROVIDER_BASE_URL", "https://www.cheapshark.com/api/1.0"), "/"),
		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		PacingDelay:     getEnvDuration("PACING_DELAY", 200*time.Millisecond),

		// Persistence
		DBPath:    getEnv("DB_PATH", "./dealtracker.db"),
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// User
		UserID:      getEnv("USER_ID", "default"),
		UserEmail:   getEnv("USER_EMAIL", ""),
		DisplayName: getEnv("DISPLAY_NAME", ""),

		// Mail transport
		MailServerToken: getEnv("MAIL_SERVER_TOKEN", ""),
		MailFrom:        getEnv("MAIL_FROM", "deals@dealtracker.local"),
		MailAPIURL:      getEnv("MAIL_API_URL", "https://api.postmarkapp.com/email"),

		// Telegram transport
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		// Reconciliation
		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 6*time.Hour),

		// Display
		Currency: getEnv("CURRENCY", "EUR"),
		Locale:   getEnv("LOCALE", "en"),

		// Observability
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsPort: getEnvInt("METRICS_PORT", 9090),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
