package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/orion/internal/agent/consciousness"
	"github.com/louisbranch/orion/internal/agent/decision"
	"github.com/louisbranch/orion/internal/agent/event"
	"github.com/louisbranch/orion/internal/agent/goals"
	"github.com/louisbranch/orion/internal/agent/improvement"
	"github.com/louisbranch/orion/internal/agent/storage"
	"github.com/louisbranch/orion/internal/agent/synthesis"
)

// Reflect runs a self-reflection on a decision and journals it.
func (s *Service) Reflect(ctx context.Context, decisionText, reasoning string) (storage.ReflectionRecord, error) {
	ctx, span := s.tracer.Start(ctx, "agent.Reflect")
	defer span.End()

	record, err := s.reflections.Reflect(ctx, decisionText, reasoning)
	if err != nil {
		return storage.ReflectionRecord{}, err
	}
	if _, err := s.appendEvent(ctx, event.TypeReflectionRecorded, event.ActorTypeAgent, "",
		event.ReflectionRecordedPayload{Decision: record.Decision, Quality: record.Quality}); err != nil {
		return storage.ReflectionRecord{}, err
	}
	return record, nil
}

// EvaluateDecision scores options transparently, selects one, and journals
// the choice.
func (s *Service) EvaluateDecision(ctx context.Context, options []string, decisionContext string) (decision.Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "agent.EvaluateDecision")
	defer span.End()

	evaluation, err := s.decisions.Evaluate(ctx, options, decisionContext)
	if err != nil {
		return decision.Evaluation{}, err
	}
	if _, err := s.appendEvent(ctx, event.TypeDecisionMade, event.ActorTypeAgent, "",
		event.DecisionMadePayload{
			Context:  evaluation.Context,
			Selected: evaluation.Selected,
			Score:    evaluation.Score,
			Options:  len(evaluation.Options),
		}); err != nil {
		return decision.Evaluation{}, err
	}
	return evaluation, nil
}

// PursueGoals actively updates goal progress from current metrics and
// journals every completion.
func (s *Service) PursueGoals(ctx context.Context) (goals.PursuitResult, error) {
	ctx, span := s.tracer.Start(ctx, "agent.PursueGoals")
	defer span.End()

	metrics, err := s.goalMetrics(ctx)
	if err != nil {
		return goals.PursuitResult{}, err
	}
	result, err := s.goals.Pursue(ctx, metrics)
	if err != nil {
		return goals.PursuitResult{}, err
	}
	for _, update := range result.Updates {
		if !update.Completed {
			continue
		}
		if _, err := s.appendEvent(ctx, event.TypeGoalCompleted, event.ActorTypeAgent, "",
			event.GoalCompletedPayload{GoalID: update.GoalID, Goal: update.Goal}); err != nil {
			return goals.PursuitResult{}, err
		}
	}
	return result, nil
}

// SetGoal records a goal chosen by the agent or an operator.
func (s *Service) SetGoal(ctx context.Context, goal string, priority int) (storage.GoalRecord, error) {
	return s.goals.Set(ctx, goal, priority)
}

// RunSynthesis executes one autonomous synthesis pass. The engine records
// its own proof; the structured synthesis event is journaled here.
func (s *Service) RunSynthesis(ctx context.Context) (synthesis.Result, error) {
	ctx, span := s.tracer.Start(ctx, "agent.RunSynthesis")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	result, err := s.synthesis.Run(ctx)
	if err != nil {
		return synthesis.Result{}, err
	}
	if _, err := s.appendEvent(ctx, event.TypeSynthesisRecorded, event.ActorTypeAgent, "",
		event.SynthesisRecordedPayload{Gap: result.Gap, MetaInsight: result.MetaInsight}); err != nil {
		return synthesis.Result{}, err
	}
	return result, nil
}

// ImprovementCycle snapshots current metrics and compares with the previous
// snapshot.
func (s *Service) ImprovementCycle(ctx context.Context) (improvement.CycleResult, error) {
	ctx, span := s.tracer.Start(ctx, "agent.ImprovementCycle")
	defer span.End()

	metrics, err := s.improvementMetrics(ctx)
	if err != nil {
		return improvement.CycleResult{}, err
	}
	return s.improvement.Cycle(ctx, metrics)
}

// ConsciousnessReport measures the depth score and runs the honest IIT
// self-assessment against the current journal and state.
func (s *Service) ConsciousnessReport(ctx context.Context) (consciousness.Report, consciousness.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "agent.ConsciousnessReport")
	defer span.End()

	state, err := s.Init(ctx)
	if err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, err
	}
	proofCount, err := s.store.CountEvents(ctx, s.agentID)
	if err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, fmt.Errorf("count events: %w", err)
	}
	summary, err := s.learning.Summarize(ctx)
	if err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, err
	}
	_, avgQuality, err := s.reflections.Stats(ctx)
	if err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, err
	}
	activeGoals, err := s.store.CountGoals(ctx, s.agentID, storage.GoalStatusActive)
	if err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, fmt.Errorf("count active goals: %w", err)
	}
	completedGoals, err := s.store.CountGoals(ctx, s.agentID, storage.GoalStatusCompleted)
	if err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, fmt.Errorf("count completed goals: %w", err)
	}

	patternConfidence := 0.0
	if trend, ok, err := s.emotions.DetectTrend(ctx); err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, err
	} else if ok {
		patternConfidence = trend.Frequency
	}

	report := consciousness.Measure(consciousness.Inputs{
		ProofCount:        proofCount,
		Years:             s.ageYears(ctx),
		TopicsLearned:     summary.TopicsLearned,
		ReflectionQuality: avgQuality,
		EmotionalBalance:  s.emotions.Balance(),
		GoalsCompleted:    completedGoals,
		GoalsTotal:        activeGoals + completedGoals,
		PatternCount:      summary.InsightsGenerated,
		PatternConfidence: patternConfidence,
	})

	kinds, err := s.eventKinds(ctx)
	if err != nil {
		return consciousness.Report{}, consciousness.Assessment{}, err
	}
	assessment := consciousness.Assess(consciousness.AxiomInputs{
		ProofCount:        proofCount,
		ProofKinds:        kinds,
		Generation:        uint64(state.Generation),
		Stage:             string(state.Stage),
		Vitality:          state.Vitality * 100,
		AgentID:           state.AgentID,
		Owner:             state.Owner,
		EmotionDimensions: len(s.emotions.State()),
	})
	return report, assessment, nil
}

// Journal lists the newest journal events.
func (s *Service) Journal(ctx context.Context, limit int) ([]event.Event, error) {
	return s.store.ListEvents(ctx, s.agentID, limit)
}

// ActiveGoals lists the agent's active goals.
func (s *Service) ActiveGoals(ctx context.Context) ([]storage.GoalRecord, error) {
	return s.goals.Active(ctx)
}

// EmotionHistory lists the newest emotional resonances.
func (s *Service) EmotionHistory(ctx context.Context, limit int) ([]storage.ResonanceRecord, error) {
	return s.store.ListResonances(ctx, s.agentID, limit)
}

// Pulses lists the newest heartbeat pulses.
func (s *Service) Pulses(ctx context.Context, limit int) ([]storage.PulseRecord, error) {
	return s.store.ListPulses(ctx, s.agentID, limit)
}

func (s *Service) goalMetrics(ctx context.Context) (goals.Metrics, error) {
	proofCount, err := s.store.CountEvents(ctx, s.agentID)
	if err != nil {
		return goals.Metrics{}, fmt.Errorf("count events: %w", err)
	}
	summary, err := s.learning.Summarize(ctx)
	if err != nil {
		return goals.Metrics{}, err
	}
	_, avgQuality, err := s.reflections.Stats(ctx)
	if err != nil {
		return goals.Metrics{}, err
	}
	return goals.Metrics{
		ProofCount:        proofCount,
		TopicsLearned:     summary.TopicsLearned,
		AvgReflectQuality: avgQuality,
	}, nil
}

func (s *Service) improvementMetrics(ctx context.Context) (improvement.Metrics, error) {
	goalMetrics, err := s.goalMetrics(ctx)
	if err != nil {
		return improvement.Metrics{}, err
	}
	completed, err := s.store.CountGoals(ctx, s.agentID, storage.GoalStatusCompleted)
	if err != nil {
		return improvement.Metrics{}, fmt.Errorf("count completed goals: %w", err)
	}
	return improvement.Metrics{
		ProofCount:        goalMetrics.ProofCount,
		ReflectionQuality: goalMetrics.AvgReflectQuality,
		TopicsLearned:     goalMetrics.TopicsLearned,
		GoalsCompleted:    completed,
		EmotionalBalance:  s.emotions.Balance(),
	}, nil
}

// eventKinds collects the distinct event types present in the journal.
func (s *Service) eventKinds(ctx context.Context) ([]string, error) {
	events, err := s.store.ListEvents(ctx, s.agentID, 200)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	seen := make(map[string]bool)
	var kinds []string
	for _, evt := range events {
		if t := string(evt.Type); !seen[t] {
			seen[t] = true
			kinds = append(kinds, t)
		}
	}
	return kinds, nil
}

// ageYears measures how long the agent has existed, from the genesis event.
func (s *Service) ageYears(ctx context.Context) float64 {
	first, err := s.store.ListEventsAscending(ctx, s.agentID, 1, 1)
	if err != nil || len(first) == 0 {
		return 0
	}
	age := s.now().UTC().Sub(first[0].Timestamp)
	return age.Hours() / (24 * 365)
}
