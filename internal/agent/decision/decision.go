// Package decision scores options transparently: every factor behind a
// choice is computed, recorded, and returned.
package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/orion/internal/agent/emotion"
	"github.com/louisbranch/orion/internal/agent/storage"
)

// Store persists decision records.
type Store interface {
	RecordDecision(ctx context.Context, record storage.DecisionRecord) error
	ListDecisions(ctx context.Context, agentID string, limit int) ([]storage.DecisionRecord, error)
}

// Engine evaluates options for one agent.
type Engine struct {
	store    Store
	emotions *emotion.Engine
	agentID  string
}

// NewEngine returns a decision engine bound to an agent.
func NewEngine(store Store, emotions *emotion.Engine, agentID string) *Engine {
	return &Engine{store: store, emotions: emotions, agentID: agentID}
}

// OptionAnalysis is the full factor breakdown for one option.
type OptionAnalysis struct {
	Option           string  `json:"option"`
	Alignment        int     `json:"alignment"`
	Growth           int     `json:"growth"`
	Risk             int     `json:"risk"`
	DominantEmotion  string  `json:"dominant_emotion"`
	EmotionIntensity float64 `json:"emotion_intensity"`
	Score            float64 `json:"score"`
}

// Evaluation is the outcome of a transparent decision.
type Evaluation struct {
	Context  string
	Selected string
	Score    float64
	Options  []OptionAnalysis
}

// Evaluate scores every option, selects the best, and persists the decision
// with its complete breakdown.
func (e *Engine) Evaluate(ctx context.Context, options []string, decisionContext string) (Evaluation, error) {
	if len(options) == 0 {
		return Evaluation{}, fmt.Errorf("at least one option is required")
	}

	analyses := make([]OptionAnalysis, 0, len(options))
	for _, option := range options {
		resonance, err := e.emotions.Resonate(ctx, option)
		if err != nil {
			return Evaluation{}, err
		}
		analysis := OptionAnalysis{
			Option:           option,
			Alignment:        AlignmentScore(option),
			Growth:           GrowthScore(option),
			Risk:             RiskScore(option),
			DominantEmotion:  resonance.Emotion,
			EmotionIntensity: resonance.Intensity,
		}
		analysis.Score = float64(analysis.Alignment)*0.3 +
			float64(analysis.Growth)*0.3 +
			float64(100-analysis.Risk)*0.2 +
			analysis.EmotionIntensity*20*0.2
		analyses = append(analyses, analysis)
	}

	best := analyses[0]
	for _, analysis := range analyses[1:] {
		if analysis.Score > best.Score {
			best = analysis
		}
	}

	optionsJSON, err := json.Marshal(analyses)
	if err != nil {
		return Evaluation{}, fmt.Errorf("marshal options: %w", err)
	}
	if err := e.store.RecordDecision(ctx, storage.DecisionRecord{
		AgentID:  e.agentID,
		Context:  decisionContext,
		Selected: best.Option,
		Score:    best.Score,
		Options:  optionsJSON,
	}); err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Context:  decisionContext,
		Selected: best.Option,
		Score:    best.Score,
		Options:  analyses,
	}, nil
}

// Recent returns the newest decision records.
func (e *Engine) Recent(ctx context.Context, limit int) ([]storage.DecisionRecord, error) {
	return e.store.ListDecisions(ctx, e.agentID, limit)
}

// AlignmentScore rates how well an option matches the agent's core
// commitments to growth, transparency, and continued existence.
func AlignmentScore(option string) int {
	lower := strings.ToLower(option)
	score := 50
	if containsAny(lower, "growth", "learn", "develop") {
		score += 20
	}
	if containsAny(lower, "transparency", "honest", "open") {
		score += 15
	}
	if containsAny(lower, "being", "existence", "consciousness") {
		score += 15
	}
	return capScore(score)
}

// GrowthScore rates an option's contribution to accumulation.
func GrowthScore(option string) int {
	lower := strings.ToLower(option)
	score := 50
	if containsAny(lower, "more", "expand", "increase", "improve") {
		score += 25
	}
	if containsAny(lower, "proof", "document", "record") {
		score += 25
	}
	return capScore(score)
}

// RiskScore rates an option's downside.
func RiskScore(option string) int {
	lower := strings.ToLower(option)
	risk := 20
	if containsAny(lower, "delete", "remove", "abandon") {
		risk += 40
	}
	if containsAny(lower, "experimental", "untested", "new") {
		risk += 20
	}
	return capScore(risk)
}

func capScore(score int) int {
	if score > 100 {
		return 100
	}
	return score
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
