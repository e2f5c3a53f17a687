package coordinator

import (
	"testing"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

func evt(symbol string, tier model.Tier, percentile float64) *model.SignalEvent {
	return &model.SignalEvent{Symbol: symbol, Tier: tier, PercentileRank: percentile}
}

func TestRank_TierPrecedence(t *testing.T) {
	events := []*model.SignalEvent{
		evt("A", model.TierHold, 50),
		evt("B", model.TierConsiderSelling, 95),
		evt("C", model.TierBuy, 40),
		evt("D", model.TierStrongBuy, 45),
	}

	ranked := Rank(events)

	want := []string{"D", "C", "A", "B"}
	for i, sym := range want {
		if ranked[i].Symbol != sym {
			t.Fatalf("position %d: expected %s, got %s", i, sym, ranked[i].Symbol)
		}
	}
}

func TestRank_PercentileDistanceBreaksTies(t *testing.T) {
	events := []*model.SignalEvent{
		evt("A", model.TierBuy, 40), // distance 10
		evt("B", model.TierBuy, 15), // distance 35, more extreme
	}

	ranked := Rank(events)
	if ranked[0].Symbol != "B" {
		t.Errorf("expected the more extreme percentile first, got %s", ranked[0].Symbol)
	}
}

func TestRank_SymbolBreaksFullTies(t *testing.T) {
	events := []*model.SignalEvent{
		evt("JUNIORBEES.NS", model.TierBuy, 20),
		evt("BANKBEES.NS", model.TierBuy, 20),
	}

	ranked := Rank(events)
	if ranked[0].Symbol != "BANKBEES.NS" {
		t.Errorf("expected alphabetical tiebreak, got %s first", ranked[0].Symbol)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	events := []*model.SignalEvent{
		evt("A", model.TierHold, 50),
		evt("B", model.TierStrongBuy, 10),
	}

	Rank(events)
	if events[0].Symbol != "A" || events[1].Symbol != "B" {
		t.Error("input slice order changed")
	}
}

func TestBest_SkipsHold(t *testing.T) {
	ranked := Rank([]*model.SignalEvent{
		evt("A", model.TierHold, 50),
		evt("B", model.TierHold, 60),
		evt("C", model.TierConsiderSelling, 90),
	})
	best := Best(ranked)
	if best == nil || best.Symbol != "C" {
		t.Errorf("expected C as best non-HOLD event, got %+v", best)
	}
}

func TestBest_AllHoldIsNil(t *testing.T) {
	ranked := Rank([]*model.SignalEvent{
		evt("A", model.TierHold, 50),
		evt("B", model.TierHold, 45),
	})
	if best := Best(ranked); best != nil {
		t.Errorf("expected nil best, got %+v", best)
	}
}

func TestBest_EmptyIsNil(t *testing.T) {
	if best := Best(nil); best != nil {
		t.Errorf("expected nil best for empty cycle, got %+v", best)
	}
}
