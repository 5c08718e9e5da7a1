package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XOOPO/TrackingTurnover/internal/api"
	"github.com/XOOPO/TrackingTurnover/internal/jobs"
	"github.com/XOOPO/TrackingTurnover/internal/notify"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/browser"
	pkgconfig "github.com/XOOPO/TrackingTurnover/internal/pkg/config"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/credentials"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/logging"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/storage"
	"github.com/XOOPO/TrackingTurnover/internal/scraper"

	_ "github.com/XOOPO/TrackingTurnover/internal/scraper/drivers/all"
)

const defaultConfigPath = "configs/config.yaml"

type flags struct {
	configPath string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Turnover service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()

	logging.Setup("turnover-service")
	slog.Info("Starting turnover service...", "config", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	// Activity log: Postgres when a DSN is configured, otherwise no-op so
	// the service still runs locally without a database.
	var activity storage.ActivityLogStorage = storage.NoopActivityLog{}
	if appConfig.Postgres.DSN != "" {
		pg, err := storage.NewPostgresActivityLog(&appConfig.Postgres)
		if err != nil {
			return fmt.Errorf("failed to initialize activity log: %w", err)
		}
		defer pg.Close()
		activity = pg
	} else {
		slog.Warn("No postgres DSN configured, activity log is disabled")
	}

	var screenshots storage.ScreenshotStore
	if appConfig.Screenshots.Dir != "" {
		screenshots, err = storage.NewLocalScreenshotStore(appConfig.Screenshots.Dir)
		if err != nil {
			return fmt.Errorf("failed to initialize screenshot store: %w", err)
		}
	}

	pool := browser.NewPool(appConfig.Scraper.ChromePath, appConfig.Scraper.SessionIdleTTL, appConfig.Scraper.NavTimeout)
	defer pool.Close()
	pool.StartSweeper(ctx, appConfig.Scraper.SweepInterval)

	creds := credentials.NewSheetsProvider(&appConfig.Credentials)
	scr := scraper.New(pool, creds, screenshots, &appConfig.Scraper)

	notifier := notify.NewTelegramNotifier(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID)
	defer notifier.Stop()

	var jobNotifier jobs.Notifier
	var alerter api.TestAlerter
	if notifier != nil {
		jobNotifier = notifier
		alerter = notifier
	}
	orchestrator := jobs.NewOrchestrator(jobs.NewStore(), scr.Scrape, activity, jobNotifier)

	server := api.NewServer(orchestrator, scr.Providers, creds, activity, alerter)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", appConfig.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: appConfig.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr, "providers", scr.Providers())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown failed", "error", err)
	}
	return nil
}

func parseFlags() flags {
	var cfg flags
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration. 0 = run until SIGINT/SIGTERM")
	flag.Parse()
	return cfg
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
		}
	}()
}
