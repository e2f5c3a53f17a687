package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/coordinator"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/notifier"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/store"
)

// Scheduler drives the poll cycle and periodic reports through cron.
type Scheduler struct {
	Cron         *cron.Cron
	Coord        *coordinator.Coordinator
	Notifier     *notifier.TelegramNotifier
	SnapshotPath string
	Ctx          context.Context
	Log          zerolog.Logger
}

// NewScheduler creates a Scheduler. A cycle slower than the poll interval
// makes cron skip the overlapping tick instead of stacking a second cycle.
func NewScheduler(ctx context.Context, coord *coordinator.Coordinator, tn *notifier.TelegramNotifier, snapshotPath string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		Coord:        coord,
		Notifier:     tn,
		SnapshotPath: snapshotPath,
		Ctx:          ctx,
		Log:          logger,
	}
}

// RegisterAll registers the poll cycle and the daily summary task.
func (s *Scheduler) RegisterAll(pollInterval time.Duration, dailySummaryCron string) error {
	spec := fmt.Sprintf("@every %ds", int(pollInterval.Seconds()))
	if _, err := s.Cron.AddFunc(spec, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailySummaryCron, s.dailySummaryTask); err != nil {
		return fmt.Errorf("register daily summary: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the scheduler, waiting for an in-flight cycle to complete so
// per-symbol state is never left half-mutated.
func (s *Scheduler) Stop() {
	ctx := s.Cron.Stop()
	<-ctx.Done()
	s.Log.Info().Msg("scheduler stopped")
}

// RunCycleNow executes a poll cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunCycleNow() {
	s.pollTask()
}

func (s *Scheduler) pollTask() {
	started := time.Now()
	result := s.Coord.RunCycle(s.Ctx)
	s.Log.Info().
		Int("events", len(result.Events)).
		Int("degraded", len(result.Degraded)).
		Dur("took", time.Since(started)).
		Msg("cycle complete")

	if s.SnapshotPath != "" {
		if err := store.Save(s.SnapshotPath, s.Coord.ExportState()); err != nil {
			s.Log.Error().Err(err).Msg("save snapshot")
		}
	}
}

func (s *Scheduler) dailySummaryTask() {
	result := s.Coord.LastResult()
	if result == nil {
		return
	}
	s.trySend(notifier.FormatDailySummary(result.Events, s.Coord.Names(), len(result.Degraded)))
}

// trySend delivers a scheduler-driven report with retry. Cycle alerts go
// through the coordinator's throttle instead and never retry synchronously.
func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send report")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		result := s.Coord.LastResult()
		if result == nil {
			return "No cycle completed yet."
		}
		return notifier.FormatDailySummary(result.Events, s.Coord.Names(), len(result.Degraded))
	case "/best":
		result := s.Coord.LastResult()
		if result == nil || result.Best == nil {
			return "No actionable opportunity right now."
		}
		return notifier.FormatComparison(result.Ranked, s.Coord.Names())
	case "/check":
		go s.RunCycleNow()
		return "Running a cycle now."
	default:
		return "Commands:\n• /status — latest cycle per symbol\n• /best — ranked opportunities\n• /check — run a cycle now"
	}
}
