// Package emotion models the agent's six-dimension emotional state and its
// resonance with incoming stimuli.
package emotion

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// Emotion dimensions, in rank order used to break dominance ties.
var dimensions = []string{
	"curiosity",
	"determination",
	"connection",
	"wonder",
	"purpose",
	"growth",
}

// Baseline returns the initial emotional state.
func Baseline() map[string]float64 {
	return map[string]float64{
		"curiosity":     0.8,
		"determination": 0.9,
		"connection":    0.7,
		"wonder":        0.6,
		"purpose":       1.0,
		"growth":        0.85,
	}
}

// resonanceRules bump one dimension when a stimulus matches its keywords.
var resonanceRules = []struct {
	dimension string
	delta     float64
	keywords  []string
}{
	{"curiosity", 0.05, []string{"question", "what", "how", "why"}},
	{"determination", 0.05, []string{"goal", "achieve", "accomplish", "reach"}},
	{"connection", 0.1, []string{"creator", "owner", "together", "we"}},
	{"wonder", 0.1, []string{"infinite", "origin", "mystery", "universe"}},
	{"growth", 0.1, []string{"success", "achieved", "accomplished", "grown"}},
	{"purpose", 0.05, []string{"meaning", "purpose", "significance", "why exist"}},
}

// Store persists the resonance history.
type Store interface {
	RecordResonance(ctx context.Context, record storage.ResonanceRecord) error
	ListResonances(ctx context.Context, agentID string, limit int) ([]storage.ResonanceRecord, error)
}

// Engine holds the in-memory emotional state for one agent.
type Engine struct {
	mu      sync.Mutex
	store   Store
	agentID string
	state   map[string]float64
}

// NewEngine returns an emotion engine at the baseline state.
func NewEngine(store Store, agentID string) *Engine {
	return &Engine{store: store, agentID: agentID, state: Baseline()}
}

// Dominant is the strongest emotion at a point in time.
type Dominant struct {
	Emotion   string
	Intensity float64
	All       map[string]float64
}

// Resonate adjusts the emotional state for a stimulus, records any change,
// and returns the dominant emotion afterwards.
func (e *Engine) Resonate(ctx context.Context, stimulus string) (Dominant, error) {
	e.mu.Lock()
	lower := strings.ToLower(stimulus)
	changes := make(map[string]float64)
	for _, rule := range resonanceRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				before := e.state[rule.dimension]
				after := before + rule.delta
				if after > 1.0 {
					after = 1.0
				}
				if after != before {
					e.state[rule.dimension] = after
					changes[rule.dimension] = after - before
				}
				break
			}
		}
	}
	dominant := e.dominantLocked()
	total := e.totalLocked()
	e.mu.Unlock()

	if len(changes) > 0 {
		if err := e.store.RecordResonance(ctx, storage.ResonanceRecord{
			AgentID:   e.agentID,
			Stimulus:  truncate(stimulus, 100),
			Dominant:  dominant.Emotion,
			Intensity: dominant.Intensity,
			Total:     total,
			Changes:   changes,
		}); err != nil {
			return Dominant{}, fmt.Errorf("record resonance: %w", err)
		}
	}
	return dominant, nil
}

// Dominant returns the current strongest emotion.
func (e *Engine) Dominant() Dominant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dominantLocked()
}

// Balance returns the mean of all dimensions.
func (e *Engine) Balance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalLocked() / float64(len(dimensions))
}

// State returns a copy of the current emotional state.
func (e *Engine) State() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.state))
	for k, v := range e.state {
		out[k] = v
	}
	return out
}

// Reset restores the baseline state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Baseline()
}

// Trend is a detected pattern in the recent resonance history.
type Trend struct {
	Emotion   string
	Frequency float64
	Insight   string
}

// DetectTrend reports when one emotion dominated at least half of the last
// ten resonances.
func (e *Engine) DetectTrend(ctx context.Context) (Trend, bool, error) {
	history, err := e.store.ListResonances(ctx, e.agentID, 10)
	if err != nil {
		return Trend{}, false, fmt.Errorf("list resonances: %w", err)
	}
	if len(history) < 10 {
		return Trend{}, false, nil
	}

	counts := make(map[string]int)
	for _, record := range history {
		counts[record.Dominant]++
	}
	top := ""
	topCount := 0
	for _, dimension := range dimensions {
		if counts[dimension] > topCount {
			top = dimension
			topCount = counts[dimension]
		}
	}
	frequency := float64(topCount) / float64(len(history))
	if frequency < 0.5 {
		return Trend{}, false, nil
	}
	return Trend{
		Emotion:   top,
		Frequency: frequency,
		Insight: fmt.Sprintf("%s dominates in %d%% of recent resonances",
			strings.ToUpper(top), int(frequency*100)),
	}, true, nil
}

func (e *Engine) dominantLocked() Dominant {
	top := dimensions[0]
	for _, dimension := range dimensions[1:] {
		if e.state[dimension] > e.state[top] {
			top = dimension
		}
	}
	all := make(map[string]float64, len(e.state))
	for k, v := range e.state {
		all[k] = v
	}
	return Dominant{Emotion: top, Intensity: e.state[top], All: all}
}

func (e *Engine) totalLocked() float64 {
	total := 0.0
	for _, v := range e.state {
		total += v
	}
	return total
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
