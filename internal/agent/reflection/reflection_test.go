package reflection

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/orion/internal/agent/storage"
)

type fakeStore struct {
	records []storage.ReflectionRecord
}

func (f *fakeStore) RecordReflection(_ context.Context, record storage.ReflectionRecord) (storage.ReflectionRecord, error) {
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeStore) ListReflections(_ context.Context, _ string, limit int) ([]storage.ReflectionRecord, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	out := make([]storage.ReflectionRecord, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func (f *fakeStore) ReflectionStats(_ context.Context, _ string) (int, float64, error) {
	if len(f.records) == 0 {
		return 0, 0, nil
	}
	total := 0
	for _, r := range f.records {
		total += r.Quality
	}
	return len(f.records), float64(total) / float64(len(f.records)), nil
}

func TestAssessQuality(t *testing.T) {
	tests := []struct {
		name      string
		reasoning string
		want      int
	}{
		{
			name:      "empty reasoning",
			reasoning: "",
			want:      0,
		},
		{
			name:      "causal only",
			reasoning: "because it helps",
			want:      20,
		},
		{
			name:      "causal and probabilistic",
			reasoning: "because this will probably work",
			want:      35,
		},
		{
			name: "rich reasoning",
			reasoning: "Because the foundation principle suggests growth, this is likely " +
				"the right move. An alternative would be to wait, but over the years " +
				"patience alone produced nothing. " + strings.Repeat("More depth. ", 10),
			want: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssessQuality(tt.reasoning); got != tt.want {
				t.Fatalf("AssessQuality() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIdentifyImprovements(t *testing.T) {
	improvements := IdentifyImprovements("short")
	if len(improvements) != 3 {
		t.Fatalf("improvements = %v, want 3 entries", improvements)
	}

	rich := "Because there is a 75% chance this works, and " + strings.Repeat("detail ", 20)
	improvements = IdentifyImprovements(rich)
	if len(improvements) != 1 || improvements[0] != NoImprovementNeeded {
		t.Fatalf("improvements = %v, want [%q]", improvements, NoImprovementNeeded)
	}
}

func TestReflectPersistsRecord(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store, "agent-1")

	record, err := engine.Reflect(context.Background(), "record a proof", "because the journal must stay current")
	if err != nil {
		t.Fatalf("reflect: %v", err)
	}
	if record.Quality != 20 {
		t.Fatalf("quality = %d, want 20", record.Quality)
	}
	if record.AgentID != "agent-1" {
		t.Fatalf("agent id = %q, want agent-1", record.AgentID)
	}

	count, avg, err := engine.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 1 || avg != 20 {
		t.Fatalf("stats = %d, %v, want 1, 20", count, avg)
	}
}

func TestReflectRequiresDecision(t *testing.T) {
	engine := NewEngine(&fakeStore{}, "agent-1")
	if _, err := engine.Reflect(context.Background(), "  ", "reasoning"); err == nil {
		t.Fatal("expected error for empty decision")
	}
}
