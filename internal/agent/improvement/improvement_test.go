package improvement

import (
	"context"
	"testing"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/storage"
)

type fakeStore struct {
	snapshots []storage.MetricsSnapshot
}

func (f *fakeStore) SaveSnapshot(_ context.Context, snapshot storage.MetricsSnapshot) error {
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeStore) LatestSnapshot(_ context.Context, agentID string) (storage.MetricsSnapshot, error) {
	if len(f.snapshots) == 0 {
		return storage.MetricsSnapshot{}, domain.NewError(domain.CodeNotFound, "no snapshots for agent %s", agentID)
	}
	return f.snapshots[len(f.snapshots)-1], nil
}

func (f *fakeStore) CountSnapshots(_ context.Context, _ string) (int, error) {
	return len(f.snapshots), nil
}

func TestCycleFirstRun(t *testing.T) {
	store := &fakeStore{}
	loop := NewLoop(store, "agent-1")

	result, err := loop.Cycle(context.Background(), Metrics{
		ProofCount:        10,
		ReflectionQuality: 40,
		TopicsLearned:     2,
		EmotionalBalance:  0.8,
	})
	if err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if len(result.ImprovementsMade) != 0 {
		t.Fatalf("improvements = %v, want none on first cycle", result.ImprovementsMade)
	}
	want := []string{"Raise reflection quality", "Learn more topics"}
	if len(result.AreasToImprove) != len(want) {
		t.Fatalf("areas = %v, want %v", result.AreasToImprove, want)
	}
	for i, area := range want {
		if result.AreasToImprove[i] != area {
			t.Errorf("areas[%d] = %q, want %q", i, result.AreasToImprove[i], area)
		}
	}
	if len(store.snapshots) != 1 {
		t.Fatalf("snapshots saved = %d, want 1", len(store.snapshots))
	}
}

func TestCycleReportsGains(t *testing.T) {
	store := &fakeStore{}
	loop := NewLoop(store, "agent-1")
	ctx := context.Background()

	if _, err := loop.Cycle(ctx, Metrics{ProofCount: 10, ReflectionQuality: 50, TopicsLearned: 3, EmotionalBalance: 0.6}); err != nil {
		t.Fatalf("first Cycle: %v", err)
	}
	result, err := loop.Cycle(ctx, Metrics{ProofCount: 25, ReflectionQuality: 75, TopicsLearned: 12, GoalsCompleted: 1, EmotionalBalance: 0.75})
	if err != nil {
		t.Fatalf("second Cycle: %v", err)
	}
	if got := len(result.ImprovementsMade); got != 5 {
		t.Fatalf("improvements = %v, want 5 entries", result.ImprovementsMade)
	}
	if result.ImprovementsMade[0] != "proof count: 10 -> 25" {
		t.Errorf("improvements[0] = %q", result.ImprovementsMade[0])
	}
	if len(result.AreasToImprove) != 0 {
		t.Fatalf("areas = %v, want none", result.AreasToImprove)
	}
}

func TestTrajectory(t *testing.T) {
	store := &fakeStore{}
	loop := NewLoop(store, "agent-1")
	ctx := context.Background()

	trajectory, err := loop.Trajectory(ctx)
	if err != nil {
		t.Fatalf("Trajectory: %v", err)
	}
	if trajectory.Direction != DirectionStarting {
		t.Fatalf("direction = %q, want %q", trajectory.Direction, DirectionStarting)
	}

	if _, err := loop.Cycle(ctx, Metrics{ProofCount: 5}); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if _, err := loop.Cycle(ctx, Metrics{ProofCount: 9}); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	trajectory, err = loop.Trajectory(ctx)
	if err != nil {
		t.Fatalf("Trajectory: %v", err)
	}
	if trajectory.TotalSnapshots != 2 {
		t.Fatalf("snapshots = %d, want 2", trajectory.TotalSnapshots)
	}
	if trajectory.Direction != DirectionUpward {
		t.Fatalf("direction = %q, want %q", trajectory.Direction, DirectionUpward)
	}
	if trajectory.Latest.ProofCount != 9 {
		t.Fatalf("latest proof count = %d, want 9", trajectory.Latest.ProofCount)
	}
}
