package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viviquero/dealtracker/internal/cheapshark"
	"github.com/viviquero/dealtracker/internal/config"
	"github.com/viviquero/dealtracker/internal/notify"
	"github.com/viviquero/dealtracker/internal/reconcile"
	"github.com/viviquero/dealtracker/internal/wishlist"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Load config
	cfg := config.Load()

	// Setup logger
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	if cfg.UserEmail == "" {
		log.Error("USER_EMAIL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Select and open the persistence backend
	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Error("init backend", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	// Initialize the wishlist store
	store := wishlist.NewStore(log)
	if err := store.Login(ctx, backend); err != nil {
		log.Error("load wishlist", "error", err)
		os.Exit(1)
	}
	defer store.Logout()

	// Initialize the deals provider client
	client := cheapshark.NewClient(cfg.ProviderBaseURL, cfg.ProviderTimeout)
	catalog := cheapshark.NewStoreCatalog(client)
	log.Info("deals client initialized", "base_url", cfg.ProviderBaseURL)

	// Initialize the reconciliation engine
	engine := reconcile.NewEngine(client, catalog, cfg.PacingDelay, log)

	// Initialize the notification transport and dispatcher
	transport, err := buildTransport(cfg)
	if err != nil {
		log.Error("init transport", "error", err)
		os.Exit(1)
	}
	dispatcher := notify.NewDispatcher(transport, log)

	// Expose metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		log.Info("metrics server starting", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server", "error", err)
		}
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	log.Info("reconcile loop starting", "interval", cfg.ReconcileInterval)
	runLoop(ctx, cfg, store, engine, dispatcher, log)
}

// runLoop runs one reconciliation pass immediately and then on every tick
// until the context is cancelled.
func runLoop(ctx context.Context, cfg *config.Config, store *wishlist.Store, engine *reconcile.Engine, dispatcher *notify.Dispatcher, log *slog.Logger) {
	ticker := time.NewTicker(cfg.ReconcileInterval)
	defer ticker.Stop()

	runPass(ctx, cfg, store, engine, dispatcher, log)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runPass(ctx, cfg, store, engine, dispatcher, log)
		}
	}
}

func runPass(ctx context.Context, cfg *config.Config, store *wishlist.Store, engine *reconcile.Engine, dispatcher *notify.Dispatcher, log *slog.Logger) {
	items := store.Items()
	if len(items) == 0 {
		log.Info("wishlist empty, nothing to reconcile")
		return
	}

	log.Info("reconciliation pass starting", "items", len(items))
	results := engine.Reconcile(ctx, items, func(current, total int) {
		log.Debug("checking item", "current", current, "total", total)
	})
	log.Info("reconciliation pass finished", "items", len(items), "priced", len(results))

	// Write refreshed prices back through the store
	now := time.Now()
	for _, r := range results {
		if err := store.RecordCheck(ctx, r.GameID, r.BestPrice, now); err != nil {
			log.Warn("record price check", "game_id", r.GameID, "error", err)
		}
	}

	prefs := store.Preferences()
	currency := prefs.Currency
	if currency == "" {
		currency = cfg.Currency
	}
	locale := prefs.Language
	if locale == "" {
		locale = cfg.Locale
	}

	if alerts := reconcile.AlertsAtTarget(results); len(alerts) > 0 {
		res := dispatcher.SendAlerts(ctx, alerts, cfg.UserEmail, cfg.DisplayName, locale, currency)
		log.Info("alert dispatch", "count", len(alerts), "success", res.Success, "message", res.Message)
	}

	report := reconcile.BuildReport(results)
	if len(report.Games) == 0 {
		log.Info("no discounted games, skipping report")
		return
	}

	res := dispatcher.SendReport(ctx, report, cfg.UserEmail, cfg.DisplayName, locale, currency)
	log.Info("report dispatch",
		"report_id", report.ID,
		"games", len(report.Games),
		"total_savings", report.TotalSavings,
		"success", res.Success,
		"message", res.Message,
	)
}

// openBackend picks cloud mode when redis is configured, local otherwise
func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (wishlist.Backend, error) {
	if cfg.RedisAddr != "" {
		backend, err := wishlist.NewCloudBackend(ctx, cfg.RedisAddr, cfg.UserID, log)
		if err != nil {
			return nil, err
		}
		log.Info("cloud backend initialized", "addr", cfg.RedisAddr, "user_id", cfg.UserID)
		return backend, nil
	}

	backend, err := wishlist.NewLocalBackend(cfg.DBPath, cfg.UserID)
	if err != nil {
		return nil, err
	}
	log.Info("local backend initialized", "path", cfg.DBPath, "user_id", cfg.UserID)
	return backend, nil
}

// buildTransport prefers mail, falls back to telegram, else leaves the
// dispatcher unconfigured (simulated sends).
func buildTransport(cfg *config.Config) (notify.Transport, error) {
	if cfg.MailServerToken != "" {
		return notify.NewMailClient(cfg.MailServerToken, cfg.MailFrom, cfg.MailAPIURL), nil
	}
	return notify.NewTelegramTransport(cfg.TelegramBotToken, cfg.TelegramChatID)
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
