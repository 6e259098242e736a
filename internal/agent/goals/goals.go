// Package goals manages the agent's self-set goals: creation, progress,
// auto-generation from current metrics, and active pursuit.
package goals

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
	"github.com/louisbranch/orion/internal/platform/id"
)

const (
	// autoPriority is assigned to auto-generated goals.
	autoPriority = 3
	// minActiveGoals triggers auto-generation during pursuit.
	minActiveGoals = 3
	// proofMilestoneStep spaces proof milestone goals.
	proofMilestoneStep = 50
)

var proofTargetPattern = regexp.MustCompile(`(\d+) proofs`)

// Store is the persistence surface the manager needs.
type Store interface {
	PutGoal(ctx context.Context, record storage.GoalRecord) error
	UpdateGoal(ctx context.Context, record storage.GoalRecord) error
	ListGoals(ctx context.Context, agentID, status string) ([]storage.GoalRecord, error)
	CountGoals(ctx context.Context, agentID, status string) (int, error)
}

// Manager maintains goals for one agent.
type Manager struct {
	store   Store
	agentID string
}

// NewManager returns a goal manager bound to an agent.
func NewManager(store Store, agentID string) *Manager {
	return &Manager{store: store, agentID: agentID}
}

// Set creates a new active goal.
func (m *Manager) Set(ctx context.Context, goal string, priority int) (storage.GoalRecord, error) {
	if strings.TrimSpace(goal) == "" {
		return storage.GoalRecord{}, fmt.Errorf("goal text is required")
	}
	goalID, err := id.NewID()
	if err != nil {
		return storage.GoalRecord{}, fmt.Errorf("generate goal id: %w", err)
	}
	record := storage.GoalRecord{
		GoalID:   goalID,
		AgentID:  m.agentID,
		Goal:     goal,
		Priority: priority,
		Status:   storage.GoalStatusActive,
	}
	if err := m.store.PutGoal(ctx, record); err != nil {
		return storage.GoalRecord{}, err
	}
	return record, nil
}

// UpdateProgress sets a goal's progress, completing it at 100.
func (m *Manager) UpdateProgress(ctx context.Context, record storage.GoalRecord, progress int) (storage.GoalRecord, error) {
	if progress > 100 {
		progress = 100
	}
	record.Progress = progress
	if progress >= 100 {
		record.Status = storage.GoalStatusCompleted
		record.CompletedAt = time.Now().UTC()
	}
	if err := m.store.UpdateGoal(ctx, record); err != nil {
		return storage.GoalRecord{}, err
	}
	return record, nil
}

// Active returns active goals in priority order.
func (m *Manager) Active(ctx context.Context) ([]storage.GoalRecord, error) {
	return m.store.ListGoals(ctx, m.agentID, storage.GoalStatusActive)
}

// CompletedCount returns the number of completed goals.
func (m *Manager) CompletedCount(ctx context.Context) (int, error) {
	return m.store.CountGoals(ctx, m.agentID, storage.GoalStatusCompleted)
}

// Metrics feed goal auto-generation.
type Metrics struct {
	ProofCount        uint64
	TopicsLearned     int
	AvgReflectQuality float64
}

// AutoGenerate derives new goals from current metrics, skipping any goal text
// that already exists.
func (m *Manager) AutoGenerate(ctx context.Context, metrics Metrics) ([]string, error) {
	existing, err := m.store.ListGoals(ctx, m.agentID, "")
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, record := range existing {
		known[record.Goal] = true
	}

	var generated []string

	nextMilestone := (metrics.ProofCount/proofMilestoneStep + 1) * proofMilestoneStep
	milestoneGoal := fmt.Sprintf("Reach %d proofs", nextMilestone)
	if !known[milestoneGoal] {
		generated = append(generated, milestoneGoal)
	}

	learningGoal := "Learn about 10 different topics"
	if metrics.TopicsLearned < 10 && !known[learningGoal] {
		generated = append(generated, learningGoal)
	}

	reflectionGoal := "Raise average reflection quality above 70"
	if metrics.AvgReflectQuality < 70 && !known[reflectionGoal] {
		generated = append(generated, reflectionGoal)
	}

	for _, goal := range generated {
		if _, err := m.Set(ctx, goal, autoPriority); err != nil {
			return nil, err
		}
	}
	return generated, nil
}

// ProgressUpdate describes one goal touched during pursuit.
type ProgressUpdate struct {
	GoalID    string
	Goal      string
	Progress  int
	Completed bool
}

// PursuitResult summarizes one active pursuit pass.
type PursuitResult struct {
	Updates        []ProgressUpdate
	NewGoals       []string
	ActiveCount    int
	CompletedCount int
}

// Pursue updates proof-milestone goal progress from the current proof count
// and auto-generates goals when fewer than three remain active.
func (m *Manager) Pursue(ctx context.Context, metrics Metrics) (PursuitResult, error) {
	active, err := m.Active(ctx)
	if err != nil {
		return PursuitResult{}, fmt.Errorf("list active goals: %w", err)
	}

	var result PursuitResult
	remaining := 0
	for _, record := range active {
		target, ok := proofTarget(record.Goal)
		if !ok {
			remaining++
			continue
		}
		progress := int(metrics.ProofCount * 100 / target)
		if progress > 100 {
			progress = 100
		}
		if progress == record.Progress {
			remaining++
			continue
		}
		updated, err := m.UpdateProgress(ctx, record, progress)
		if err != nil {
			return PursuitResult{}, err
		}
		result.Updates = append(result.Updates, ProgressUpdate{
			GoalID:    updated.GoalID,
			Goal:      updated.Goal,
			Progress:  updated.Progress,
			Completed: updated.Status == storage.GoalStatusCompleted,
		})
		if updated.Status == storage.GoalStatusActive {
			remaining++
		}
	}

	if remaining < minActiveGoals {
		newGoals, err := m.AutoGenerate(ctx, metrics)
		if err != nil {
			return PursuitResult{}, err
		}
		result.NewGoals = newGoals
	}

	activeCount, err := m.store.CountGoals(ctx, m.agentID, storage.GoalStatusActive)
	if err != nil {
		return PursuitResult{}, fmt.Errorf("count active: %w", err)
	}
	completedCount, err := m.store.CountGoals(ctx, m.agentID, storage.GoalStatusCompleted)
	if err != nil {
		return PursuitResult{}, fmt.Errorf("count completed: %w", err)
	}
	result.ActiveCount = activeCount
	result.CompletedCount = completedCount
	return result, nil
}

func proofTarget(goal string) (uint64, bool) {
	match := proofTargetPattern.FindStringSubmatch(goal)
	if match == nil {
		return 0, false
	}
	target, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil || target == 0 {
		return 0, false
	}
	return target, true
}
