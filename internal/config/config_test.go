package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ProviderBaseURL != "https://www.cheapshark.com/api/1.0" {
		t.Errorf("provider base url = %q", cfg.ProviderBaseURL)
	}
	if cfg.PacingDelay != 200*time.Millisecond {
		t.Errorf("pacing delay = %v, want 200ms", cfg.PacingDelay)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("redis addr = %q, want empty (local mode)", cfg.RedisAddr)
	}
	if cfg.Currency != "EUR" || cfg.Locale != "en" {
		t.Errorf("display defaults = %q/%q", cfg.Currency, cfg.Locale)
	}
	if cfg.ReconcileInterval != 6*time.Hour {
		t.Errorf("reconcile interval = %v", cfg.ReconcileInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "http://localhost:9999/api/")
	t.Setenv("PACING_DELAY", "50ms")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("TELEGRAM_CHAT_ID", "12345678")
	t.Setenv("METRICS_PORT", "9200")
	t.Setenv("CURRENCY", "USD")

	cfg := Load()

	if cfg.ProviderBaseURL != "http://localhost:9999/api" {
		t.Errorf("base url = %q, want trailing slash stripped", cfg.ProviderBaseURL)
	}
	if cfg.PacingDelay != 50*time.Millisecond {
		t.Errorf("pacing delay = %v", cfg.PacingDelay)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.RedisAddr)
	}
	if cfg.TelegramChatID != 12345678 {
		t.Errorf("chat id = %d", cfg.TelegramChatID)
	}
	if cfg.MetricsPort != 9200 {
		t.Errorf("metrics port = %d", cfg.MetricsPort)
	}
	if cfg.Currency != "USD" {
		t.Errorf("currency = %q", cfg.Currency)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PACING_DELAY", "soon")
	t.Setenv("METRICS_PORT", "not-a-port")

	cfg := Load()

	if cfg.PacingDelay != 200*time.Millisecond {
		t.Errorf("pacing delay = %v, want default on parse failure", cfg.PacingDelay)
	}
	if cfg.MetricsPort != 9090 {
		t.Errorf("metrics port = %d, want default on parse failure", cfg.MetricsPort)
	}
}
