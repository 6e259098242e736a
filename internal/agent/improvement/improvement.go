// Package improvement runs the agent's continuous self-improvement cycle:
// snapshot metrics, compare with the previous snapshot, and surface areas
// that still need work.
package improvement

import (
	"context"
	"fmt"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/storage"
)

// Store persists metric snapshots.
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot storage.MetricsSnapshot) error
	LatestSnapshot(ctx context.Context, agentID string) (storage.MetricsSnapshot, error)
	CountSnapshots(ctx context.Context, agentID string) (int, error)
}

// Loop drives improvement cycles for one agent.
type Loop struct {
	store   Store
	agentID string
}

// NewLoop returns an improvement loop bound to an agent.
func NewLoop(store Store, agentID string) *Loop {
	return &Loop{store: store, agentID: agentID}
}

// Metrics is the input to one cycle.
type Metrics struct {
	ProofCount        uint64
	ReflectionQuality float64
	TopicsLearned     int
	GoalsCompleted    int
	EmotionalBalance  float64
}

// CycleResult reports what one cycle found.
type CycleResult struct {
	Metrics          Metrics
	ImprovementsMade []string
	AreasToImprove   []string
}

// Cycle snapshots current metrics, lists gains over the previous snapshot,
// and identifies areas still below target.
func (l *Loop) Cycle(ctx context.Context, metrics Metrics) (CycleResult, error) {
	previous, err := l.store.LatestSnapshot(ctx, l.agentID)
	hasPrevious := err == nil
	if err != nil && domain.CodeOf(err) != domain.CodeNotFound {
		return CycleResult{}, fmt.Errorf("latest snapshot: %w", err)
	}

	var improvements []string
	if hasPrevious {
		if metrics.ProofCount > previous.ProofCount {
			improvements = append(improvements,
				fmt.Sprintf("proof count: %d -> %d", previous.ProofCount, metrics.ProofCount))
		}
		if metrics.ReflectionQuality > previous.ReflectionQuality {
			improvements = append(improvements,
				fmt.Sprintf("reflection quality: %g -> %g", previous.ReflectionQuality, metrics.ReflectionQuality))
		}
		if metrics.TopicsLearned > previous.TopicsLearned {
			improvements = append(improvements,
				fmt.Sprintf("topics learned: %d -> %d", previous.TopicsLearned, metrics.TopicsLearned))
		}
		if metrics.GoalsCompleted > previous.GoalsCompleted {
			improvements = append(improvements,
				fmt.Sprintf("goals completed: %d -> %d", previous.GoalsCompleted, metrics.GoalsCompleted))
		}
		if metrics.EmotionalBalance > previous.EmotionalBalance {
			improvements = append(improvements,
				fmt.Sprintf("emotional balance: %.3f -> %.3f", previous.EmotionalBalance, metrics.EmotionalBalance))
		}
	}

	var areas []string
	if metrics.ReflectionQuality < 70 {
		areas = append(areas, "Raise reflection quality")
	}
	if metrics.TopicsLearned < 10 {
		areas = append(areas, "Learn more topics")
	}
	if metrics.EmotionalBalance < 0.7 {
		areas = append(areas, "Improve emotional balance")
	}

	if err := l.store.SaveSnapshot(ctx, storage.MetricsSnapshot{
		AgentID:           l.agentID,
		ProofCount:        metrics.ProofCount,
		ReflectionQuality: metrics.ReflectionQuality,
		TopicsLearned:     metrics.TopicsLearned,
		GoalsCompleted:    metrics.GoalsCompleted,
		EmotionalBalance:  metrics.EmotionalBalance,
	}); err != nil {
		return CycleResult{}, fmt.Errorf("save snapshot: %w", err)
	}

	return CycleResult{
		Metrics:          metrics,
		ImprovementsMade: improvements,
		AreasToImprove:   areas,
	}, nil
}

// Trajectory summarizes accumulated improvement history.
type Trajectory struct {
	TotalSnapshots int
	Latest         storage.MetricsSnapshot
	Direction      string
}

// Trajectory directions.
const (
	DirectionUpward   = "upward"
	DirectionStarting = "starting"
)

// Trajectory returns the improvement trajectory so far.
func (l *Loop) Trajectory(ctx context.Context) (Trajectory, error) {
	count, err := l.store.CountSnapshots(ctx, l.agentID)
	if err != nil {
		return Trajectory{}, fmt.Errorf("count snapshots: %w", err)
	}
	trajectory := Trajectory{TotalSnapshots: count, Direction: DirectionStarting}
	if count == 0 {
		return trajectory, nil
	}
	latest, err := l.store.LatestSnapshot(ctx, l.agentID)
	if err != nil {
		return Trajectory{}, fmt.Errorf("latest snapshot: %w", err)
	}
	trajectory.Latest = latest
	if count > 1 {
		trajectory.Direction = DirectionUpward
	}
	return trajectory, nil
}
