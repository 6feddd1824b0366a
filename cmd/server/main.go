package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FundLens/internal/collector"
	"FundLens/internal/config"
	"FundLens/internal/explorer"
	"FundLens/internal/logger"
	"FundLens/internal/notifier"
	"FundLens/internal/recorder"
	"FundLens/internal/scheduler"
	"FundLens/internal/server"
	"FundLens/internal/watchlist"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)

	log := logger.New(logger.Config{Level: levelOf(cfg), Pretty: cfg != nil && cfg.Server.DevMode})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().Msg("Starting FundLens")

	// Upstream NAV source, cached
	mfapi := collector.NewMFAPIFetcher(
		collector.WithBaseURL(cfg.DataSource.BaseURL),
		collector.WithProxy(cfg.Proxy),
		collector.WithTimeout(cfg.FetchTimeout()),
		collector.WithRateLimit(cfg.DataSource.RateLimit),
	)
	fetcher, err := collector.NewCachingFetcher(mfapi, cfg.CacheConfig(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create NAV cache")
	}
	defer fetcher.Close()
	log.Info().Str("source", fetcher.Name()).Msg("NAV data source ready")

	svc := explorer.NewService(collector.NewCollector(fetcher, log), log)

	wl, err := watchlist.NewManager(cfg.Watchlist.File, cfg.Watchlist.Initial)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load watchlist")
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("SQLite recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	} else {
		log.Info().Msg("Telegram not configured, digests will be recorded only")
	}

	sched := scheduler.NewScheduler(ctx, svc, wl, sender, rec, log)
	if err := sched.RegisterAll(cfg.Schedule.WarmupCron, cfg.Schedule.DigestCron); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, warming cache now")
		go sched.RunWarmupNow()
	}

	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		DevMode:  cfg.Server.DevMode,
		Log:      log,
		Explorer: svc,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("FundLens is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("FundLens stopped")
}

func levelOf(cfg *config.Config) string {
	if cfg == nil {
		return "info"
	}
	return cfg.Log.Level
}
