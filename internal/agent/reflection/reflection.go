// Package reflection scores the agent's own decisions and keeps a rolling
// record of reasoning quality.
package reflection

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// NoImprovementNeeded is recorded when reasoning shows no obvious gaps.
const NoImprovementNeeded = "No immediate improvement potential"

// Store is the persistence surface the engine needs.
type Store interface {
	RecordReflection(ctx context.Context, record storage.ReflectionRecord) (storage.ReflectionRecord, error)
	ListReflections(ctx context.Context, agentID string, limit int) ([]storage.ReflectionRecord, error)
	ReflectionStats(ctx context.Context, agentID string) (count int, avgQuality float64, err error)
}

// Engine analyzes decisions for one agent.
type Engine struct {
	store   Store
	agentID string
}

// NewEngine returns a reflection engine bound to an agent.
func NewEngine(store Store, agentID string) *Engine {
	return &Engine{store: store, agentID: agentID}
}

// Reflect assesses a decision's reasoning and persists the result.
func (e *Engine) Reflect(ctx context.Context, decision, reasoning string) (storage.ReflectionRecord, error) {
	if strings.TrimSpace(decision) == "" {
		return storage.ReflectionRecord{}, fmt.Errorf("decision is required")
	}

	record := storage.ReflectionRecord{
		AgentID:      e.agentID,
		Decision:     decision,
		Reasoning:    reasoning,
		Quality:      AssessQuality(reasoning),
		Improvements: IdentifyImprovements(reasoning),
	}
	return e.store.RecordReflection(ctx, record)
}

// Stats returns the reflection count and mean quality.
func (e *Engine) Stats(ctx context.Context) (int, float64, error) {
	return e.store.ReflectionStats(ctx, e.agentID)
}

// Recent returns the newest reflections.
func (e *Engine) Recent(ctx context.Context, limit int) ([]storage.ReflectionRecord, error) {
	return e.store.ListReflections(ctx, e.agentID, limit)
}

// AssessQuality scores reasoning on a 0-100 scale by looking for markers of
// causal, probabilistic, and comparative thinking.
func AssessQuality(reasoning string) int {
	lower := strings.ToLower(reasoning)
	score := 0

	if strings.Contains(lower, "because") {
		score += 20
	}
	if containsAny(lower, "likely", "probably", "possibly", "%") {
		score += 15
	}
	if containsAny(lower, "alternative", "instead", "otherwise") {
		score += 15
	}
	if len(reasoning) > 200 {
		score += 10
	}
	if containsAny(lower, "principle", "foundation") {
		score += 20
	}
	if containsAny(lower, "years", "long-term") {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}

// IdentifyImprovements lists the gaps AssessQuality penalizes.
func IdentifyImprovements(reasoning string) []string {
	lower := strings.ToLower(reasoning)
	var improvements []string

	if !strings.Contains(lower, "because") {
		improvements = append(improvements, "Add causal reasoning")
	}
	if !strings.Contains(reasoning, "%") {
		improvements = append(improvements, "Add probabilistic estimates")
	}
	if len(reasoning) < 100 {
		improvements = append(improvements, "Perform a deeper analysis")
	}

	if len(improvements) == 0 {
		return []string{NoImprovementNeeded}
	}
	return improvements
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
