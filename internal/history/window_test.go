package history

import (
	"testing"
	"time"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

func sampleAt(symbol string, daysAgo int, price float64) model.PriceSample {
	return model.PriceSample{
		Symbol: symbol,
		Time:   time.Now().AddDate(0, 0, -daysAgo),
		Price:  price,
	}
}

func TestWindow_AppendAndEvict(t *testing.T) {
	w := NewWindow("NIFTYBEES.NS", 90*24*time.Hour)

	for i := 120; i >= 0; i-- {
		if err := w.Append(sampleAt("NIFTYBEES.NS", i, 250)); err != nil {
			t.Fatalf("append day -%d: %v", i, err)
		}
	}

	if w.Len() > 91 {
		t.Errorf("expected samples older than 90 days evicted, got %d", w.Len())
	}
	samples := w.Samples()
	for i := 1; i < len(samples); i++ {
		if samples[i].Time.Before(samples[i-1].Time) {
			t.Fatal("samples not timestamp-ordered")
		}
	}
}

func TestWindow_RejectsWrongSymbol(t *testing.T) {
	w := NewWindow("NIFTYBEES.NS", 90*24*time.Hour)
	if err := w.Append(sampleAt("BANKBEES.NS", 0, 500)); err == nil {
		t.Error("expected error for mismatched symbol")
	}
}

func TestWindow_RejectsOutOfOrder(t *testing.T) {
	w := NewWindow("NIFTYBEES.NS", 90*24*time.Hour)
	if err := w.Append(sampleAt("NIFTYBEES.NS", 1, 250)); err != nil {
		t.Fatal(err)
	}
	if err := w.Append(sampleAt("NIFTYBEES.NS", 5, 240)); err == nil {
		t.Error("expected error for out-of-order sample")
	}
}

func TestWindow_Last(t *testing.T) {
	w := NewWindow("NIFTYBEES.NS", 90*24*time.Hour)
	if _, ok := w.Last(); ok {
		t.Error("empty window should have no last sample")
	}
	w.Append(sampleAt("NIFTYBEES.NS", 2, 248))
	w.Append(sampleAt("NIFTYBEES.NS", 1, 252))
	last, ok := w.Last()
	if !ok || last.Price != 252 {
		t.Errorf("expected last price 252, got %v (ok=%v)", last.Price, ok)
	}
}
