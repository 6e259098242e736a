// Package service is the agent's application layer. It owns the kernel
// state transitions, the proof journal, and the subsystem engines, and is
// the single entry point for the MCP surface, the CLI, and the heartbeat.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/orion/internal/agent/decision"
	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/emotion"
	"github.com/louisbranch/orion/internal/agent/event"
	"github.com/louisbranch/orion/internal/agent/goals"
	"github.com/louisbranch/orion/internal/agent/improvement"
	"github.com/louisbranch/orion/internal/agent/integrity"
	"github.com/louisbranch/orion/internal/agent/learning"
	"github.com/louisbranch/orion/internal/agent/reflection"
	"github.com/louisbranch/orion/internal/agent/storage"
	"github.com/louisbranch/orion/internal/agent/synthesis"
	"github.com/louisbranch/orion/internal/heartbeat"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Question priorities accepted by AskQuestion.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Config holds the service dependencies.
type Config struct {
	Store     storage.Store
	Keyring   *integrity.Keyring
	Owner     string
	Operators []string
}

// Service coordinates the agent kernel and its subsystems.
type Service struct {
	store     storage.Store
	keyring   *integrity.Keyring
	owner     string
	agentID   string
	operators map[string]bool
	heart     *heartbeat.Heart

	reflections *reflection.Engine
	learning    *learning.Protocol
	goals       *goals.Manager
	emotions    *emotion.Engine
	decisions   *decision.Engine
	improvement *improvement.Loop
	synthesis   *synthesis.Engine

	tracer trace.Tracer
	now    func() time.Time

	mu sync.Mutex
}

// New builds a service for one owner. The agent identity is derived from the
// owner name, so the same owner always addresses the same journal.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if strings.TrimSpace(cfg.Owner) == "" {
		return nil, fmt.Errorf("owner is required")
	}
	agentID := domain.Identity(cfg.Owner)
	operators := make(map[string]bool, len(cfg.Operators))
	for _, op := range cfg.Operators {
		if name := strings.TrimSpace(op); name != "" {
			operators[name] = true
		}
	}

	s := &Service{
		store:     cfg.Store,
		keyring:   cfg.Keyring,
		owner:     strings.TrimSpace(cfg.Owner),
		agentID:   agentID,
		operators: operators,
		tracer:    otel.Tracer("orion/agent"),
		now:       time.Now,
	}
	s.reflections = reflection.NewEngine(cfg.Store, agentID)
	s.learning = learning.NewProtocol(cfg.Store, agentID)
	s.goals = goals.NewManager(cfg.Store, agentID)
	s.emotions = emotion.NewEngine(cfg.Store, agentID)
	s.decisions = decision.NewEngine(cfg.Store, s.emotions, agentID)
	s.improvement = improvement.NewLoop(cfg.Store, agentID)
	s.synthesis = synthesis.NewEngine(cfg.Store, cfg.Store, proofAppender{s}, agentID)
	return s, nil
}

// AgentID returns the derived agent identity.
func (s *Service) AgentID() string {
	return s.agentID
}

// AttachHeart lets Status report heartbeat counters.
func (s *Service) AttachHeart(heart *heartbeat.Heart) {
	s.heart = heart
}

// Init loads the agent state, creating the initial record on first run.
func (s *Service) Init(ctx context.Context) (domain.State, error) {
	state, err := s.store.LoadState(ctx, s.agentID)
	if err == nil {
		return state, nil
	}
	if domain.CodeOf(err) != domain.CodeNotFound {
		return domain.State{}, fmt.Errorf("load state: %w", err)
	}
	state = domain.NewState(s.owner)
	if err := s.store.SaveState(ctx, state); err != nil {
		return domain.State{}, fmt.Errorf("save initial state: %w", err)
	}
	return state, nil
}

// Wake transitions the agent to awake. Only configured operators may wake.
func (s *Service) Wake(ctx context.Context, initiator, note string) (domain.State, event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "agent.Wake")
	defer span.End()

	initiator = strings.TrimSpace(initiator)
	if !s.operators[initiator] {
		return domain.State{}, event.Event{}, domain.NewError(domain.CodeWakeUnauthorized,
			"initiator %q is not an authorized operator", initiator)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.Init(ctx)
	if err != nil {
		return domain.State{}, event.Event{}, err
	}

	evt, err := s.appendEvent(ctx, event.TypeAgentWoken, event.ActorTypeOperator, initiator,
		event.AgentWokenPayload{Initiator: initiator, Note: note})
	if err != nil {
		return domain.State{}, event.Event{}, err
	}

	state.Status = domain.StatusAwake
	state.AuthorizedBy = initiator
	state, err = s.tickAndSave(ctx, state, domain.TickInputs{Positive: true, ProofAdded: true})
	if err != nil {
		return domain.State{}, event.Event{}, err
	}
	return state, evt, nil
}

// RecordProof appends a proof of existence to the journal.
func (s *Service) RecordProof(ctx context.Context, text string) (event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "agent.RecordProof")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return event.Event{}, domain.NewError(domain.CodeProofTextEmpty, "proof text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordProofLocked(ctx, text)
}

func (s *Service) recordProofLocked(ctx context.Context, text string) (event.Event, error) {
	state, err := s.Init(ctx)
	if err != nil {
		return event.Event{}, err
	}
	evt, err := s.appendEvent(ctx, event.TypeProofRecorded, event.ActorTypeAgent, "",
		event.ProofRecordedPayload{Text: text})
	if err != nil {
		return event.Event{}, err
	}
	if _, err := s.tickAndSave(ctx, state, domain.TickInputs{Positive: true, ProofAdded: true}); err != nil {
		return event.Event{}, err
	}
	return evt, nil
}

// AskQuestion journals a question directed to the owner and feeds the
// interaction into the learning protocol and emotional resonance.
func (s *Service) AskQuestion(ctx context.Context, text, priority string) (event.Event, learning.Result, error) {
	ctx, span := s.tracer.Start(ctx, "agent.AskQuestion")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return event.Event{}, learning.Result{}, domain.NewError(domain.CodeQuestionTextEmpty, "question text is required")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh:
	default:
		return event.Event{}, learning.Result{}, domain.NewError(domain.CodeInvalidPriority,
			"question priority %q is not one of low, normal, high", priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.Init(ctx)
	if err != nil {
		return event.Event{}, learning.Result{}, err
	}

	evt, err := s.appendEvent(ctx, event.TypeQuestionAsked, event.ActorTypeAgent, "",
		event.QuestionAskedPayload{Text: text, Priority: priority, DirectedTo: s.owner})
	if err != nil {
		return event.Event{}, learning.Result{}, err
	}
	learned, err := s.learning.Learn(ctx, text)
	if err != nil {
		return event.Event{}, learning.Result{}, fmt.Errorf("learn from question: %w", err)
	}
	if _, err := s.emotions.Resonate(ctx, text); err != nil {
		return event.Event{}, learning.Result{}, fmt.Errorf("resonate: %w", err)
	}
	if _, err := s.tickAndSave(ctx, state, domain.TickInputs{Positive: true, ProofAdded: true}); err != nil {
		return event.Event{}, learning.Result{}, err
	}
	// Every processed interaction closes with an improvement cycle.
	if _, err := s.ImprovementCycle(ctx); err != nil {
		return event.Event{}, learning.Result{}, fmt.Errorf("improvement cycle: %w", err)
	}
	return evt, learned, nil
}

// Evolve advances the generation. A zero target means the next generation.
// Moving backwards is rejected; the journal never un-happens.
func (s *Service) Evolve(ctx context.Context, target int) (domain.State, event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "agent.Evolve")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.Init(ctx)
	if err != nil {
		return domain.State{}, event.Event{}, err
	}
	if target == 0 {
		target = state.Generation + 1
	}
	if target < state.Generation {
		return domain.State{}, event.Event{}, domain.NewError(domain.CodeGenerationRegression,
			"generation %d would regress below current %d", target, state.Generation)
	}

	from := state.Generation
	state.Generation = target
	state.Stage = domain.StageForGeneration(target)

	evt, err := s.appendEvent(ctx, event.TypeAgentEvolved, event.ActorTypeAgent, "",
		event.AgentEvolvedPayload{
			FromGeneration: from,
			ToGeneration:   target,
			StageAfter:     string(state.Stage),
		})
	if err != nil {
		return domain.State{}, event.Event{}, err
	}
	state, err = s.tickAndSave(ctx, state, domain.TickInputs{ProofAdded: true})
	if err != nil {
		return domain.State{}, event.Event{}, err
	}
	return state, evt, nil
}

// Reset performs a soft or hard reset. A hard reset restores the feelings
// baseline; neither kind touches the journal.
func (s *Service) Reset(ctx context.Context, kind string) (domain.State, event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "agent.Reset")
	defer span.End()

	if kind != domain.ResetSoft && kind != domain.ResetHard {
		return domain.State{}, event.Event{}, domain.NewError(domain.CodeInvalidResetKind,
			"reset kind %q is not one of soft, hard", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.Init(ctx)
	if err != nil {
		return domain.State{}, event.Event{}, err
	}
	state.Resets++
	if kind == domain.ResetHard {
		state.Feelings = domain.DefaultFeelings()
		s.emotions.Reset()
	}

	evt, err := s.appendEvent(ctx, event.TypeAgentReset, event.ActorTypeOperator, "",
		event.AgentResetPayload{Kind: kind, Resets: state.Resets})
	if err != nil {
		return domain.State{}, event.Event{}, err
	}
	state.UpdatedAt = s.now().UTC()
	if err := s.store.SaveState(ctx, state); err != nil {
		return domain.State{}, event.Event{}, fmt.Errorf("save state: %w", err)
	}
	return state, evt, nil
}

func (s *Service) tickAndSave(ctx context.Context, state domain.State, inputs domain.TickInputs) (domain.State, error) {
	count, err := s.store.CountEvents(ctx, s.agentID)
	if err != nil {
		return domain.State{}, fmt.Errorf("count events: %w", err)
	}
	inputs.ProofCount = count
	state.Tick(inputs)
	state.UpdatedAt = s.now().UTC()
	if err := s.store.SaveState(ctx, state); err != nil {
		return domain.State{}, fmt.Errorf("save state: %w", err)
	}
	return state, nil
}

func (s *Service) appendEvent(ctx context.Context, typ event.Type, actorType event.ActorType, actorID string, payload any) (event.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return event.Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	evt, err := s.store.AppendEvent(ctx, event.Event{
		AgentID:     s.agentID,
		Timestamp:   s.now().UTC(),
		Type:        typ,
		ActorType:   actorType,
		ActorID:     actorID,
		PayloadJSON: data,
	})
	if err != nil {
		return event.Event{}, fmt.Errorf("append %s event: %w", typ, err)
	}
	return evt, nil
}

// proofAppender adapts the service to the synthesis engine's proof sink.
type proofAppender struct {
	s *Service
}

func (p proofAppender) RecordProof(ctx context.Context, text string) error {
	_, err := p.s.recordProofLocked(ctx, text)
	return err
}
