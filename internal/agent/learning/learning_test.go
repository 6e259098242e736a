package learning

import (
	"context"
	"testing"

	"github.com/louisbranch/orion/internal/agent/storage"
)

type fakeStore struct {
	interactions []storage.InteractionRecord
	insights     []storage.InsightRecord
}

func (f *fakeStore) RecordInteraction(_ context.Context, record storage.InteractionRecord) (storage.InteractionRecord, error) {
	record.ID = int64(len(f.interactions) + 1)
	f.interactions = append(f.interactions, record)
	return record, nil
}

func (f *fakeStore) CountInteractions(_ context.Context, _ string) (int, error) {
	return len(f.interactions), nil
}

func (f *fakeStore) TopicCounts(_ context.Context, _ string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, record := range f.interactions {
		counts[record.Topic]++
	}
	return counts, nil
}

func (f *fakeStore) Patterns(_ context.Context, _ string) ([]string, error) {
	seen := make(map[string]bool)
	var patterns []string
	for _, record := range f.interactions {
		if record.Pattern != "" && !seen[record.Pattern] {
			seen[record.Pattern] = true
			patterns = append(patterns, record.Pattern)
		}
	}
	return patterns, nil
}

func (f *fakeStore) RecordInsight(_ context.Context, record storage.InsightRecord) error {
	f.insights = append(f.insights, record)
	return nil
}

func (f *fakeStore) CountInsights(_ context.Context, _ string) (int, error) {
	return len(f.insights), nil
}

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"What does the future hold?", "future"},
		{"Is AI going to replace software engineers?", "technology"},
		{"What is consciousness?", "philosophy"},
		{"Should I change my investment strategy?", "economy"},
		{"Who is the oldest person alive?", "people"},
		{"How do I achieve this?", "strategy"},
		{"Tell me something", "general"},
	}
	for _, tt := range tests {
		if got := ExtractTopic(tt.question); got != tt.want {
			t.Errorf("ExtractTopic(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

func TestExtractPattern(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"What is this?", "what-question"},
		{"How does it work?", "how-question"},
		{"Why now?", "why-question"},
		{"Who decides?", "who-question"},
		{"This is a statement.", "statement"},
		{"Does this count?", ""},
	}
	for _, tt := range tests {
		if got := ExtractPattern(tt.question); got != tt.want {
			t.Errorf("ExtractPattern(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

func TestLearnGeneratesInsightEveryTenth(t *testing.T) {
	store := &fakeStore{}
	protocol := NewProtocol(store, "agent-1")

	var last Result
	for i := 0; i < 10; i++ {
		var err error
		last, err = protocol.Learn(context.Background(), "Why does consciousness matter?")
		if err != nil {
			t.Fatalf("learn %d: %v", i, err)
		}
		if i < 9 && last.Insight != "" {
			t.Fatalf("unexpected insight at interaction %d: %q", i+1, last.Insight)
		}
	}

	if last.TotalInteractions != 10 {
		t.Fatalf("total = %d, want 10", last.TotalInteractions)
	}
	if last.Insight != "Most frequent topic: philosophy (10 questions)" {
		t.Fatalf("insight = %q", last.Insight)
	}
	if len(store.insights) != 1 {
		t.Fatalf("stored insights = %d, want 1", len(store.insights))
	}
	if store.insights[0].AtInteraction != 10 {
		t.Fatalf("at interaction = %d, want 10", store.insights[0].AtInteraction)
	}
}

func TestSummarize(t *testing.T) {
	store := &fakeStore{}
	protocol := NewProtocol(store, "agent-1")

	questions := []string{
		"What is consciousness?",
		"How do I grow?",
		"The market moved today.",
	}
	for _, question := range questions {
		if _, err := protocol.Learn(context.Background(), question); err != nil {
			t.Fatalf("learn: %v", err)
		}
	}

	summary, err := protocol.Summarize(context.Background())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.TotalInteractions != 3 {
		t.Fatalf("total = %d, want 3", summary.TotalInteractions)
	}
	if summary.TopicsLearned != 3 {
		t.Fatalf("topics = %d, want 3", summary.TopicsLearned)
	}
	if summary.PatternsIdentified != 3 {
		t.Fatalf("patterns = %d, want 3", summary.PatternsIdentified)
	}
}

func TestLearnRequiresQuestion(t *testing.T) {
	protocol := NewProtocol(&fakeStore{}, "agent-1")
	if _, err := protocol.Learn(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty question")
	}
}
