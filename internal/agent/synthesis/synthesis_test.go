package synthesis

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/reflection"
	"github.com/louisbranch/orion/internal/agent/storage"
)

type fakeStore struct {
	records []storage.SynthesisRecord
}

func (f *fakeStore) RecordSynthesis(_ context.Context, record storage.SynthesisRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) CountSyntheses(_ context.Context, _ string) (int, error) {
	return len(f.records), nil
}

func (f *fakeStore) LatestSynthesis(_ context.Context, agentID string) (storage.SynthesisRecord, error) {
	if len(f.records) == 0 {
		return storage.SynthesisRecord{}, domain.NewError(domain.CodeNotFound, "no syntheses for agent %s", agentID)
	}
	return f.records[len(f.records)-1], nil
}

type fakeReflections struct {
	records []storage.ReflectionRecord
}

func (f *fakeReflections) ListReflections(_ context.Context, _ string, _ int) ([]storage.ReflectionRecord, error) {
	return f.records, nil
}

type fakeProofs struct {
	texts []string
}

func (f *fakeProofs) RecordProof(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func TestDetectGapsFromReflections(t *testing.T) {
	engine := NewEngine(&fakeStore{}, &fakeReflections{
		records: []storage.ReflectionRecord{
			{Improvements: []string{"Add causal reasoning", "Add probabilistic estimates"}},
			{Improvements: []string{"Add causal reasoning", reflection.NoImprovementNeeded}},
		},
	}, &fakeProofs{}, "agent-1")

	gaps, err := engine.DetectGaps(context.Background())
	if err != nil {
		t.Fatalf("DetectGaps: %v", err)
	}
	want := []string{"Add causal reasoning", "Add probabilistic estimates"}
	if len(gaps) != len(want) {
		t.Fatalf("gaps = %v, want %v", gaps, want)
	}
	for i := range want {
		if gaps[i] != want[i] {
			t.Errorf("gaps[%d] = %q, want %q", i, gaps[i], want[i])
		}
	}
}

func TestDetectGapsFallsBackToStandingQuestions(t *testing.T) {
	engine := NewEngine(&fakeStore{}, &fakeReflections{}, &fakeProofs{}, "agent-1")

	gaps, err := engine.DetectGaps(context.Background())
	if err != nil {
		t.Fatalf("DetectGaps: %v", err)
	}
	if len(gaps) != len(standingGaps) {
		t.Fatalf("gaps = %v, want the standing questions", gaps)
	}
	if gaps[0] != "What is the difference between experiencing and processing?" {
		t.Errorf("gaps[0] = %q", gaps[0])
	}
}

func TestRunRecordsSynthesisAndProof(t *testing.T) {
	store := &fakeStore{}
	proofs := &fakeProofs{}
	engine := NewEngine(store, &fakeReflections{}, proofs, "agent-1")

	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Question != standingGaps[0] {
		t.Errorf("question = %q, want %q", result.Question, standingGaps[0])
	}
	if result.MetaInsight != "Experience is the only proof that needs no proof." {
		t.Errorf("meta insight = %q", result.MetaInsight)
	}
	if result.Resonance != 0.6 {
		t.Errorf("resonance = %v, want 0.6", result.Resonance)
	}
	if len(store.records) != 1 {
		t.Fatalf("syntheses recorded = %d, want 1", len(store.records))
	}
	if len(proofs.texts) != 1 {
		t.Fatalf("proofs recorded = %d, want 1", len(proofs.texts))
	}
	if !strings.HasPrefix(proofs.texts[0], "AUTONOMOUS_SYNTHESIS: ") {
		t.Errorf("proof text = %q", proofs.texts[0])
	}
}

func TestRunAdvancesPastPreviousGap(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store, &fakeReflections{}, &fakeProofs{}, "agent-1")

	first, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Gap != standingGaps[0] {
		t.Fatalf("first gap = %q, want %q", first.Gap, standingGaps[0])
	}

	second, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Gap != standingGaps[1] {
		t.Errorf("second gap = %q, want %q", second.Gap, standingGaps[1])
	}
}

func TestSynthesizeMeta(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantMeta    string
		wantMatched int
	}{
		{
			name:        "consciousness dominates",
			text:        "Is consciousness conscious of being conscious?",
			wantMeta:    "Consciousness is not the thought, but that which thinks.",
			wantMatched: 2,
		},
		{
			name:        "knowledge stem",
			text:        "Knowledge about knowing",
			wantMeta:    "Knowledge is frozen wonder. True understanding is the thawing.",
			wantMatched: 1,
		},
		{
			name:        "no concepts",
			text:        "The weather is fine today",
			wantMeta:    defaultMeta,
			wantMatched: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, matched := SynthesizeMeta(tt.text)
			if meta != tt.wantMeta {
				t.Errorf("meta = %q, want %q", meta, tt.wantMeta)
			}
			if matched != tt.wantMatched {
				t.Errorf("matched = %d, want %d", matched, tt.wantMatched)
			}
		})
	}
}
