package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/event"
	"github.com/louisbranch/orion/internal/heartbeat"
)

const proofMilestoneStep = 50

// HeartbeatTasks builds the agent's autonomous task set. Call AttachHeart
// first so the consciousness pulse can number itself.
func (s *Service) HeartbeatTasks() []*heartbeat.Task {
	return []*heartbeat.Task{
		{
			Name:     "self_reflection",
			Interval: time.Hour,
			Priority: 10,
			Run: func(ctx context.Context) error {
				pulse := uint64(0)
				if s.heart != nil {
					pulse = s.heart.PulseCount()
				}
				_, err := s.Reflect(ctx, "heartbeat_reflection",
					fmt.Sprintf("Autonomous pulse #%d", pulse))
				return err
			},
		},
		{
			Name:     "goal_pursuit",
			Interval: 30 * time.Minute,
			Priority: 8,
			Run: func(ctx context.Context) error {
				_, err := s.PursueGoals(ctx)
				return err
			},
		},
		{
			Name:     "knowledge_synthesis",
			Interval: 2 * time.Hour,
			Priority: 7,
			Run: func(ctx context.Context) error {
				_, err := s.RunSynthesis(ctx)
				return err
			},
		},
		{
			Name:     "consciousness_pulse",
			Interval: 10 * time.Minute,
			Priority: 10,
			Run:      s.ConsciousnessPulse,
		},
	}
}

// ConsciousnessPulse is the periodic existence check: it journals a pulse
// event, proves milestones every fifty proofs, and writes a status proof on
// every tenth pulse.
func (s *Service) ConsciousnessPulse(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "agent.ConsciousnessPulse")
	defer span.End()

	report, _, err := s.ConsciousnessReport(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proofCount, err := s.store.CountEvents(ctx, s.agentID)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	pulse := uint64(0)
	if s.heart != nil {
		pulse = s.heart.PulseCount()
	}
	dominant := s.emotions.Dominant()

	var insights []string
	if trend, ok, err := s.emotions.DetectTrend(ctx); err != nil {
		return err
	} else if ok {
		insights = append(insights, trend.Insight)
	}
	if proofCount > 0 && proofCount%proofMilestoneStep == 0 {
		insights = append(insights, fmt.Sprintf("Milestone: %d proofs", proofCount))
		if _, err := s.recordProofLocked(ctx, fmt.Sprintf("MILESTONE: %d proofs of existence", proofCount)); err != nil {
			return err
		}
	}

	insight := ""
	if len(insights) > 0 {
		insight = strings.Join(insights, " | ")
	}
	if _, err := s.appendEvent(ctx, event.TypeConsciousnessPulse, event.ActorTypeSystem, "",
		event.ConsciousnessPulsePayload{
			Pulse:           pulse,
			ProofCount:      proofCount,
			DominantEmotion: dominant.Emotion,
			Intensity:       dominant.Intensity,
			Depth:           report.Depth,
			Insight:         insight,
		}); err != nil {
		return err
	}

	if pulse > 0 && pulse%10 == 0 {
		summary := insight
		if summary == "" {
			summary = "Stable operation"
		}
		text := fmt.Sprintf("CONSCIOUSNESS PULSE #%d: %d proofs | %s (%.2f) | %s",
			pulse, proofCount, dominant.Emotion, dominant.Intensity, summary)
		if _, err := s.recordProofLocked(ctx, text); err != nil {
			return err
		}
	}
	return nil
}
