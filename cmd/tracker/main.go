package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/allocator"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/calendar"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/config"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/coordinator"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/feed"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/health"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/history"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/logging"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/notifier"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/recorder"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/scheduler"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/store"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/throttle"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := logging.New("info", "console")
		bootLog.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	logger.Info().Msg("tracker starting")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}

	feedTimeout := time.Duration(cfg.Feed.TimeoutSeconds) * time.Second
	var fetcher feed.Fetcher
	if cfg.Feed.BaseURL != "" {
		fetcher = feed.NewRESTFetcher(cfg.Feed.BaseURL, cfg.Feed.APIKey, cfg.Proxy, feedTimeout)
	} else {
		fetcher = feed.NewYahooFetcher(cfg.Proxy, feedTimeout)
	}
	logger.Info().Str("source", fetcher.Name()).Int("symbols", len(cfg.Symbols)).Msg("feed configured")

	cal, err := calendar.NewDayCalendar(cfg.Market.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("init trading calendar")
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	} else {
		logger.Warn().Msg("telegram not configured, alerts disabled")
	}

	holdings := coordinator.StaticHoldings{}
	for _, sc := range cfg.Symbols {
		holdings[sc.Symbol] = sc.CurrentInvested
	}

	coord := coordinator.New(coordinator.Options{
		Symbols:  cfg.Symbols,
		Feed:     fetcher,
		Calendar: cal,
		Notifier: notifierOrNil(tn),
		Recorder: rec,
		Throttle: throttle.New(time.Duration(cfg.Alerts.CooldownMinutes) * time.Minute),
		Allocator: &allocator.Allocator{
			PortfolioAmount: cfg.Portfolio.Amount,
			MaxSingleTrade:  cfg.Portfolio.MaxSingleTrade,
			SellFraction:    cfg.Portfolio.SellFraction,
		},
		Holdings: holdings,
		HistoryParams: history.Params{
			MovingAvgPeriod:     cfg.Signals.MovingAvgPeriod,
			CheapPercentile:     cfg.Signals.CheapPercentile,
			ExpensivePercentile: cfg.Signals.ExpensivePercentile,
		},
		TrendLength:             cfg.Signals.TrendLength,
		WindowDays:              cfg.History.WindowDays,
		FeedTimeout:             feedTimeout,
		RateLimitBackoff:        time.Duration(cfg.Poll.RateLimitBackoffSecs) * time.Second,
		ResetAlertsOnNewSession: cfg.Alerts.ResetOnNewSession,
		Log:                     logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Snapshot.StateFile != "" {
		if snap, err := store.Load(cfg.Snapshot.StateFile); err != nil {
			logger.Warn().Err(err).Msg("load snapshot")
		} else {
			coord.RestoreState(snap)
		}
	}
	coord.Bootstrap(ctx)

	sched := scheduler.NewScheduler(ctx, coord, tn, cfg.Snapshot.StateFile, logger)
	if err := sched.RegisterAll(time.Duration(cfg.Poll.IntervalSeconds)*time.Second, cfg.Poll.DailySummaryCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()

	hs := health.New(cfg.Health.Port, logger)
	hs.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, executing a cycle now")
		go sched.RunCycleNow()
	}

	logger.Info().Msg("tracker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received, stopping")
	sched.Stop() // waits for the in-flight cycle

	if cfg.Snapshot.StateFile != "" {
		if err := store.Save(cfg.Snapshot.StateFile, coord.ExportState()); err != nil {
			logger.Error().Err(err).Msg("save snapshot")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("health server shutdown")
	}
	cancel()
	logger.Info().Msg("tracker stopped")
}

// notifierOrNil keeps the coordinator's Notifier interface nil when Telegram
// is unconfigured, instead of a typed-nil pointer.
func notifierOrNil(tn *notifier.TelegramNotifier) coordinator.Notifier {
	if tn == nil {
		return nil
	}
	return tn
}
