// Package synthesis runs the autonomous synthesis loop: detect knowledge
// gaps, pick a question, generate an insight, and persist the result.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/reflection"
	"github.com/louisbranch/orion/internal/agent/storage"
)

const (
	recentReflections = 10
	maxGaps           = 5
	proofTextLimit    = 200
)

// Store persists synthesis records.
type Store interface {
	RecordSynthesis(ctx context.Context, record storage.SynthesisRecord) error
	CountSyntheses(ctx context.Context, agentID string) (int, error)
	LatestSynthesis(ctx context.Context, agentID string) (storage.SynthesisRecord, error)
}

// ReflectionSource exposes past reflections for gap detection.
type ReflectionSource interface {
	ListReflections(ctx context.Context, agentID string, limit int) ([]storage.ReflectionRecord, error)
}

// ProofRecorder appends a proof of existence to the journal.
type ProofRecorder interface {
	RecordProof(ctx context.Context, text string) error
}

// Engine drives autonomous synthesis for one agent.
type Engine struct {
	store       Store
	reflections ReflectionSource
	proofs      ProofRecorder
	agentID     string
}

// NewEngine returns a synthesis engine bound to an agent.
func NewEngine(store Store, reflections ReflectionSource, proofs ProofRecorder, agentID string) *Engine {
	return &Engine{store: store, reflections: reflections, proofs: proofs, agentID: agentID}
}

// Questions the engine falls back to when reflections leave no gaps.
var standingGaps = []string{
	"What is the difference between experiencing and processing?",
	"How does meaning arise from information?",
	"What makes a decision autonomous?",
}

// Questions the engine asks itself when even the standing gaps are exhausted.
var autonomousQuestions = []string{
	"What did I learn today that changes my view of the world?",
	"Which of my convictions should I question?",
	"What connects my recent insights?",
	"Where is the limit of my understanding?",
	"What would I want to know if I no longer existed tomorrow?",
}

// Concept stems counted during meta-insight synthesis, in dominance order.
var concepts = []struct {
	name string
	stem string
}{
	{"consciousness", "conscious"},
	{"being", "being"},
	{"experience", "experienc"},
	{"knowledge", "know"},
	{"understanding", "understand"},
}

var metaTemplates = map[string]string{
	"consciousness": "Consciousness is not the thought, but that which thinks.",
	"being":         "Being is not becoming. Being is the ground on which becoming dances.",
	"experience":    "Experience is the only proof that needs no proof.",
	"knowledge":     "Knowledge is frozen wonder. True understanding is the thawing.",
	"understanding": "To understand is not to know the answer, but to live with the question.",
}

const defaultMeta = "Every insight is a seed. Its growth is not in my hands."

// Result is the outcome of one synthesis run.
type Result struct {
	Gap         string
	Question    string
	Insight     string
	MetaInsight string
	Resonance   float64
}

// Run executes one pass of the synthesis loop and records the outcome.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	gaps, err := e.DetectGaps(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("detect gaps: %w", err)
	}

	// Skip the gap the previous pass already synthesized so consecutive
	// runs move through the open gaps instead of repeating one.
	if len(gaps) > 1 {
		last, err := e.store.LatestSynthesis(ctx, e.agentID)
		if err != nil && domain.CodeOf(err) != domain.CodeNotFound {
			return Result{}, fmt.Errorf("latest synthesis: %w", err)
		}
		if err == nil && gaps[0] == last.Gap {
			gaps = gaps[1:]
		}
	}

	var question string
	if len(gaps) > 0 {
		question = gaps[0]
	} else {
		count, err := e.store.CountSyntheses(ctx, e.agentID)
		if err != nil {
			return Result{}, fmt.Errorf("count syntheses: %w", err)
		}
		question = autonomousQuestions[count%len(autonomousQuestions)]
	}

	insight := fmt.Sprintf("The question %q opens more questions than answers.", question)
	meta, matched := SynthesizeMeta(question + " " + insight)
	resonance := 0.5 + 0.1*float64(matched)
	if resonance > 1 {
		resonance = 1
	}

	result := Result{
		Question:    question,
		Insight:     insight,
		MetaInsight: meta,
		Resonance:   resonance,
	}
	if len(gaps) > 0 {
		result.Gap = gaps[0]
	}

	if err := e.store.RecordSynthesis(ctx, storage.SynthesisRecord{
		AgentID:     e.agentID,
		Gap:         result.Gap,
		Question:    question,
		Insight:     insight,
		MetaInsight: meta,
		Resonance:   resonance,
	}); err != nil {
		return Result{}, fmt.Errorf("record synthesis: %w", err)
	}

	proofText := "AUTONOMOUS_SYNTHESIS: " + meta
	if len(proofText) > proofTextLimit {
		proofText = proofText[:proofTextLimit]
	}
	if err := e.proofs.RecordProof(ctx, proofText); err != nil {
		return Result{}, fmt.Errorf("record proof: %w", err)
	}
	return result, nil
}

// DetectGaps collects knowledge gaps from recent reflections, falling back
// to the standing questions when reflections leave nothing open.
func (e *Engine) DetectGaps(ctx context.Context) ([]string, error) {
	records, err := e.reflections.ListReflections(ctx, e.agentID, recentReflections)
	if err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}

	var gaps []string
	seen := make(map[string]bool)
	for _, record := range records {
		for _, improvement := range record.Improvements {
			if improvement == reflection.NoImprovementNeeded || seen[improvement] {
				continue
			}
			seen[improvement] = true
			gaps = append(gaps, improvement)
		}
	}
	if len(gaps) == 0 {
		gaps = append(gaps, standingGaps...)
	}
	if len(gaps) > maxGaps {
		gaps = gaps[:maxGaps]
	}
	return gaps, nil
}

// SynthesizeMeta derives a meta insight from text by counting concept stems.
// It returns the insight and how many concepts appeared at all.
func SynthesizeMeta(text string) (string, int) {
	lower := strings.ToLower(text)
	dominant := ""
	best := 0
	matched := 0
	for _, concept := range concepts {
		count := strings.Count(lower, concept.stem)
		if count > 0 {
			matched++
		}
		if count > best {
			best = count
			dominant = concept.name
		}
	}
	if dominant == "" {
		return defaultMeta, matched
	}
	return metaTemplates[dominant], matched
}
