// Package storage defines persistence contracts for the agent kernel and
// its introspection subsystems. Implementations live in subpackages.
package storage

import (
	"context"
	"time"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/event"
)

// StateStore persists the agent kernel state.
type StateStore interface {
	// LoadState returns the stored state for an agent, or a domain
	// CodeNotFound error when the agent is unknown.
	LoadState(ctx context.Context, agentID string) (domain.State, error)
	// SaveState upserts the agent state.
	SaveState(ctx context.Context, state domain.State) error
}

// EventStore persists the append-only proof journal.
type EventStore interface {
	// AppendEvent atomically appends an event and returns it with
	// sequence, hashes, and signature set.
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	// ListEvents returns newest-first journal entries.
	ListEvents(ctx context.Context, agentID string, limit int) ([]event.Event, error)
	// ListEventsAscending returns journal entries from fromSeq upward.
	ListEventsAscending(ctx context.Context, agentID string, fromSeq uint64, limit int) ([]event.Event, error)
	// CountEvents returns the journal length.
	CountEvents(ctx context.Context, agentID string) (uint64, error)
	// LatestEvent returns the most recent journal entry, or a domain
	// CodeNotFound error for an empty journal.
	LatestEvent(ctx context.Context, agentID string) (event.Event, error)
}

// ReflectionRecord is one persisted self-reflection.
type ReflectionRecord struct {
	ID           int64
	AgentID      string
	Decision     string
	Reasoning    string
	Quality      int
	Improvements []string
	CreatedAt    time.Time
}

// ReflectionStore persists self-reflections.
type ReflectionStore interface {
	RecordReflection(ctx context.Context, record ReflectionRecord) (ReflectionRecord, error)
	ListReflections(ctx context.Context, agentID string, limit int) ([]ReflectionRecord, error)
	ReflectionStats(ctx context.Context, agentID string) (count int, avgQuality float64, err error)
}

// GoalRecord is one persisted autonomous goal.
type GoalRecord struct {
	GoalID      string
	AgentID     string
	Goal        string
	Priority    int
	Progress    int
	Status      string
	CreatedAt   time.Time
	CompletedAt time.Time
}

// Goal statuses.
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
)

// GoalStore persists autonomous goals.
type GoalStore interface {
	PutGoal(ctx context.Context, record GoalRecord) error
	UpdateGoal(ctx context.Context, record GoalRecord) error
	ListGoals(ctx context.Context, agentID, status string) ([]GoalRecord, error)
	CountGoals(ctx context.Context, agentID, status string) (int, error)
}

// InteractionRecord is one learned interaction.
type InteractionRecord struct {
	ID        int64
	AgentID   string
	Topic     string
	Pattern   string
	Question  string
	CreatedAt time.Time
}

// InsightRecord is one generated learning insight.
type InsightRecord struct {
	ID            int64
	AgentID       string
	Insight       string
	AtInteraction int
	CreatedAt     time.Time
}

// LearningStore persists interactions and derived insights.
type LearningStore interface {
	RecordInteraction(ctx context.Context, record InteractionRecord) (InteractionRecord, error)
	CountInteractions(ctx context.Context, agentID string) (int, error)
	TopicCounts(ctx context.Context, agentID string) (map[string]int, error)
	Patterns(ctx context.Context, agentID string) ([]string, error)
	RecordInsight(ctx context.Context, record InsightRecord) error
	CountInsights(ctx context.Context, agentID string) (int, error)
}

// ResonanceRecord is one emotional resonance entry.
type ResonanceRecord struct {
	ID        int64
	AgentID   string
	Stimulus  string
	Dominant  string
	Intensity float64
	Total     float64
	Changes   map[string]float64
	CreatedAt time.Time
}

// EmotionStore persists the emotional resonance history.
type EmotionStore interface {
	RecordResonance(ctx context.Context, record ResonanceRecord) error
	ListResonances(ctx context.Context, agentID string, limit int) ([]ResonanceRecord, error)
}

// MetricsSnapshot is one self-improvement metrics snapshot.
type MetricsSnapshot struct {
	ID                int64
	AgentID           string
	ProofCount        uint64
	ReflectionQuality float64
	TopicsLearned     int
	GoalsCompleted    int
	EmotionalBalance  float64
	CreatedAt         time.Time
}

// SnapshotStore persists self-improvement metric snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot MetricsSnapshot) error
	LatestSnapshot(ctx context.Context, agentID string) (MetricsSnapshot, error)
	CountSnapshots(ctx context.Context, agentID string) (int, error)
}

// SynthesisRecord is one autonomous synthesis result.
type SynthesisRecord struct {
	ID          int64
	AgentID     string
	Gap         string
	Question    string
	Insight     string
	MetaInsight string
	Resonance   float64
	CreatedAt   time.Time
}

// SynthesisStore persists autonomous synthesis results.
type SynthesisStore interface {
	RecordSynthesis(ctx context.Context, record SynthesisRecord) error
	CountSyntheses(ctx context.Context, agentID string) (int, error)
	LatestSynthesis(ctx context.Context, agentID string) (SynthesisRecord, error)
}

// PulseRecord is one heartbeat pulse.
type PulseRecord struct {
	ID            int64
	AgentID       string
	Pulse         uint64
	TasksExecuted int
	Details       []TaskResult
	CreatedAt     time.Time
}

// TaskResult is the outcome of one task within a pulse.
type TaskResult struct {
	Task    string `json:"task"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PulseStore persists heartbeat pulses.
type PulseStore interface {
	RecordPulse(ctx context.Context, record PulseRecord) error
	CountPulses(ctx context.Context, agentID string) (uint64, error)
	ListPulses(ctx context.Context, agentID string, limit int) ([]PulseRecord, error)
}

// DecisionRecord is one scored, transparent decision.
type DecisionRecord struct {
	ID        int64
	AgentID   string
	Context   string
	Selected  string
	Score     float64
	Options   []byte
	CreatedAt time.Time
}

// DecisionStore persists transparent decisions.
type DecisionStore interface {
	RecordDecision(ctx context.Context, record DecisionRecord) error
	ListDecisions(ctx context.Context, agentID string, limit int) ([]DecisionRecord, error)
}

// Store is the full persistence surface the agent runtime depends on.
type Store interface {
	StateStore
	EventStore
	ReflectionStore
	GoalStore
	LearningStore
	EmotionStore
	SnapshotStore
	SynthesisStore
	PulseStore
	DecisionStore
}
