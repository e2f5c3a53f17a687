package scheduler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/allocator"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/calendar"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/config"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/coordinator"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/feed"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/history"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/notifier"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/recorder"
	"github.com/sanketkarwalink/nifty-bees-sanket/internal/throttle"
)

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(_ *http.Request) (*http.Response, error) {
	c.calls++
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
		Header:     make(http.Header),
	}, nil
}

func newTestCoordinator(t *testing.T) *coordinator.Coordinator {
	t.Helper()
	cal, err := calendar.NewDayCalendar("UTC")
	if err != nil {
		t.Fatal(err)
	}
	return coordinator.New(coordinator.Options{
		Symbols: []config.SymbolConfig{
			{Symbol: "NIFTYBEES.NS", Name: "Nifty 50", TargetAllocation: 0.2, BuyOnDipPct: 2.0, SellOnSpikePct: 3.0},
		},
		Feed:          &feed.MockFetcher{Price: 250},
		Calendar:      cal,
		Recorder:      recorder.NewNoopRecorder(),
		Throttle:      throttle.New(5 * time.Minute),
		Allocator:     &allocator.Allocator{PortfolioAmount: 100000, MaxSingleTrade: 25000, SellFraction: 0.25},
		Holdings:      coordinator.StaticHoldings{},
		HistoryParams: history.Params{MovingAvgPeriod: 20, CheapPercentile: 20, ExpensivePercentile: 80},
		TrendLength:   3,
		WindowDays:    90,
		FeedTimeout:   5 * time.Second,
		Log:           zerolog.Nop(),
	})
}

func TestDailySummary_SentWithRetryingSender(t *testing.T) {
	coord := newTestCoordinator(t)
	coord.Bootstrap(context.Background())
	coord.RunCycle(context.Background())

	tr := &countingTransport{}
	tn := &notifier.TelegramNotifier{
		BotToken: "token",
		ChatID:   "42",
		Client:   &http.Client{Transport: tr, Timeout: 5 * time.Second},
		Log:      zerolog.Nop(),
	}
	s := NewScheduler(context.Background(), coord, tn, "", zerolog.Nop())

	s.dailySummaryTask()
	if tr.calls != 1 {
		t.Fatalf("expected the summary delivered once, got %d requests", tr.calls)
	}
}

func TestDailySummary_NoNotifierNoPanic(t *testing.T) {
	coord := newTestCoordinator(t)
	coord.Bootstrap(context.Background())
	coord.RunCycle(context.Background())

	s := NewScheduler(context.Background(), coord, nil, "", zerolog.Nop())
	s.dailySummaryTask()
}

func TestDailySummary_NoCycleYet(t *testing.T) {
	tr := &countingTransport{}
	tn := &notifier.TelegramNotifier{
		BotToken: "token",
		ChatID:   "42",
		Client:   &http.Client{Transport: tr, Timeout: 5 * time.Second},
		Log:      zerolog.Nop(),
	}
	s := NewScheduler(context.Background(), newTestCoordinator(t), tn, "", zerolog.Nop())

	s.dailySummaryTask()
	if tr.calls != 0 {
		t.Fatalf("no summary should go out before the first cycle, got %d requests", tr.calls)
	}
}

func TestHandleCommand_StatusBeforeFirstCycle(t *testing.T) {
	s := NewScheduler(context.Background(), newTestCoordinator(t), nil, "", zerolog.Nop())
	if got := s.HandleCommand("/status"); got != "No cycle completed yet." {
		t.Errorf("unexpected /status reply %q", got)
	}
	if got := s.HandleCommand("/unknown"); !strings.Contains(got, "/best") {
		t.Errorf("help text should list commands, got %q", got)
	}
}
