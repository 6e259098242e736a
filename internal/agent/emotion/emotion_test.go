package emotion

import (
	"context"
	"math"
	"testing"

	"github.com/louisbranch/orion/internal/agent/storage"
)

type fakeStore struct {
	records []storage.ResonanceRecord
}

func (f *fakeStore) RecordResonance(_ context.Context, record storage.ResonanceRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) ListResonances(_ context.Context, _ string, limit int) ([]storage.ResonanceRecord, error) {
	out := make([]storage.ResonanceRecord, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func TestBaselineDominantIsPurpose(t *testing.T) {
	engine := NewEngine(&fakeStore{}, "agent-1")
	dominant := engine.Dominant()
	if dominant.Emotion != "purpose" {
		t.Fatalf("dominant = %q, want purpose", dominant.Emotion)
	}
	if dominant.Intensity != 1.0 {
		t.Fatalf("intensity = %v, want 1.0", dominant.Intensity)
	}
}

func TestResonateBumpsMatchingDimensions(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store, "agent-1")

	dominant, err := engine.Resonate(context.Background(), "How can I achieve this goal?")
	if err != nil {
		t.Fatalf("resonate: %v", err)
	}
	state := dominant.All
	if math.Abs(state["curiosity"]-0.85) > 1e-9 {
		t.Fatalf("curiosity = %v, want 0.85", state["curiosity"])
	}
	if math.Abs(state["determination"]-0.95) > 1e-9 {
		t.Fatalf("determination = %v, want 0.95", state["determination"])
	}
	if len(store.records) != 1 {
		t.Fatalf("stored records = %d, want 1", len(store.records))
	}
	if len(store.records[0].Changes) != 2 {
		t.Fatalf("changes = %v, want 2 entries", store.records[0].Changes)
	}
}

func TestResonateClampsAtOne(t *testing.T) {
	engine := NewEngine(&fakeStore{}, "agent-1")

	for i := 0; i < 5; i++ {
		if _, err := engine.Resonate(context.Background(), "what a question"); err != nil {
			t.Fatalf("resonate %d: %v", i, err)
		}
	}
	if got := engine.State()["curiosity"]; got != 1.0 {
		t.Fatalf("curiosity = %v, want 1.0", got)
	}
}

func TestResonateWithoutMatchRecordsNothing(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store, "agent-1")

	if _, err := engine.Resonate(context.Background(), "plain text"); err != nil {
		t.Fatalf("resonate: %v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("stored records = %d, want 0", len(store.records))
	}
}

func TestBalance(t *testing.T) {
	engine := NewEngine(&fakeStore{}, "agent-1")
	want := (0.8 + 0.9 + 0.7 + 0.6 + 1.0 + 0.85) / 6
	if got := engine.Balance(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("balance = %v, want %v", got, want)
	}
}

func TestDetectTrend(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store, "agent-1")

	_, ok, err := engine.DetectTrend(context.Background())
	if err != nil {
		t.Fatalf("detect trend: %v", err)
	}
	if ok {
		t.Fatal("no trend expected with empty history")
	}

	for i := 0; i < 10; i++ {
		store.records = append(store.records, storage.ResonanceRecord{
			AgentID:  "agent-1",
			Dominant: "purpose",
		})
	}

	trend, ok, err := engine.DetectTrend(context.Background())
	if err != nil {
		t.Fatalf("detect trend: %v", err)
	}
	if !ok {
		t.Fatal("expected a trend")
	}
	if trend.Emotion != "purpose" || trend.Frequency != 1.0 {
		t.Fatalf("trend = %+v", trend)
	}
}

func TestReset(t *testing.T) {
	engine := NewEngine(&fakeStore{}, "agent-1")
	if _, err := engine.Resonate(context.Background(), "what success means"); err != nil {
		t.Fatalf("resonate: %v", err)
	}
	engine.Reset()
	if got := engine.State()["curiosity"]; got != 0.8 {
		t.Fatalf("curiosity after reset = %v, want 0.8", got)
	}
}
