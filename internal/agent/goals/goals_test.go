package goals

import (
	"context"
	"sort"
	"testing"

	"github.com/louisbranch/orion/internal/agent/storage"
)

type fakeStore struct {
	goals map[string]storage.GoalRecord
	order []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{goals: make(map[string]storage.GoalRecord)}
}

func (f *fakeStore) PutGoal(_ context.Context, record storage.GoalRecord) error {
	f.goals[record.GoalID] = record
	f.order = append(f.order, record.GoalID)
	return nil
}

func (f *fakeStore) UpdateGoal(_ context.Context, record storage.GoalRecord) error {
	f.goals[record.GoalID] = record
	return nil
}

func (f *fakeStore) ListGoals(_ context.Context, _ string, status string) ([]storage.GoalRecord, error) {
	var records []storage.GoalRecord
	for _, goalID := range f.order {
		record := f.goals[goalID]
		if status == "" || record.Status == status {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Priority > records[j].Priority
	})
	return records, nil
}

func (f *fakeStore) CountGoals(_ context.Context, _ string, status string) (int, error) {
	count := 0
	for _, record := range f.goals {
		if status == "" || record.Status == status {
			count++
		}
	}
	return count, nil
}

func TestSetAssignsUniqueGoalIDs(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store, "agent-1")

	first, err := manager.Set(context.Background(), "Learn the journal format", 5)
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	second, err := manager.Set(context.Background(), "Deepen reflections", 4)
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if first.GoalID == "" || second.GoalID == "" {
		t.Fatal("goal id is empty")
	}
	if first.GoalID == second.GoalID {
		t.Fatalf("goal ids collide: %q", first.GoalID)
	}
	if first.Status != storage.GoalStatusActive {
		t.Fatalf("status = %q, want %q", first.Status, storage.GoalStatusActive)
	}
}

func TestAutoGenerate(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store, "agent-1")

	generated, err := manager.AutoGenerate(context.Background(), Metrics{
		ProofCount:        120,
		TopicsLearned:     4,
		AvgReflectQuality: 55,
	})
	if err != nil {
		t.Fatalf("auto generate: %v", err)
	}

	want := []string{
		"Reach 150 proofs",
		"Learn about 10 different topics",
		"Raise average reflection quality above 70",
	}
	if len(generated) != len(want) {
		t.Fatalf("generated = %v, want %v", generated, want)
	}
	for i, goal := range want {
		if generated[i] != goal {
			t.Fatalf("generated[%d] = %q, want %q", i, generated[i], goal)
		}
	}

	// A second pass must not duplicate existing goals.
	again, err := manager.AutoGenerate(context.Background(), Metrics{
		ProofCount:        120,
		TopicsLearned:     4,
		AvgReflectQuality: 55,
	})
	if err != nil {
		t.Fatalf("auto generate again: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second pass generated = %v, want none", again)
	}
}

func TestAutoGenerateSkipsSatisfiedMetrics(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store, "agent-1")

	generated, err := manager.AutoGenerate(context.Background(), Metrics{
		ProofCount:        10,
		TopicsLearned:     15,
		AvgReflectQuality: 80,
	})
	if err != nil {
		t.Fatalf("auto generate: %v", err)
	}
	if len(generated) != 1 || generated[0] != "Reach 50 proofs" {
		t.Fatalf("generated = %v, want only the milestone goal", generated)
	}
}

func TestPursueUpdatesMilestoneProgress(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store, "agent-1")

	if _, err := manager.Set(context.Background(), "Reach 100 proofs", 5); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	result, err := manager.Pursue(context.Background(), Metrics{
		ProofCount:        50,
		TopicsLearned:     15,
		AvgReflectQuality: 80,
	})
	if err != nil {
		t.Fatalf("pursue: %v", err)
	}
	if len(result.Updates) != 1 {
		t.Fatalf("updates = %v, want 1", result.Updates)
	}
	if result.Updates[0].Progress != 50 || result.Updates[0].Completed {
		t.Fatalf("update = %+v, want progress 50 not completed", result.Updates[0])
	}
}

func TestPursueCompletesMilestone(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store, "agent-1")

	if _, err := manager.Set(context.Background(), "Reach 100 proofs", 5); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	result, err := manager.Pursue(context.Background(), Metrics{ProofCount: 150})
	if err != nil {
		t.Fatalf("pursue: %v", err)
	}
	if len(result.Updates) != 1 || !result.Updates[0].Completed {
		t.Fatalf("updates = %+v, want completed milestone", result.Updates)
	}
	if result.CompletedCount != 1 {
		t.Fatalf("completed count = %d, want 1", result.CompletedCount)
	}
	// Pursuit replenishes goals after the completion left none active.
	if len(result.NewGoals) == 0 {
		t.Fatal("expected auto-generated goals after completion")
	}
}

func TestUpdateProgressClampsAt100(t *testing.T) {
	store := newFakeStore()
	manager := NewManager(store, "agent-1")

	record, err := manager.Set(context.Background(), "Broaden knowledge", 7)
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	updated, err := manager.UpdateProgress(context.Background(), record, 120)
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if updated.Progress != 100 {
		t.Fatalf("progress = %d, want 100", updated.Progress)
	}
	if updated.Status != storage.GoalStatusCompleted {
		t.Fatalf("status = %q, want completed", updated.Status)
	}
	if updated.CompletedAt.IsZero() {
		t.Fatal("completed at should be set")
	}
}
