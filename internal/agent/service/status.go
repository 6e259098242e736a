package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/heartbeat"
)

// HeartbeatStats summarizes the heartbeat for status reporting.
type HeartbeatStats struct {
	PulseCount uint64
	Tasks      []heartbeat.TaskStats
}

// Report is the full agent status readout.
type Report struct {
	State        domain.State
	ProofCount   uint64
	ChainHead    string
	ManifestRoot string
	Heartbeat    HeartbeatStats
}

// manifestState is the canonical state shape hashed into the manifest root.
// Field order is fixed; changing it changes every manifest.
type manifestState struct {
	AgentID      string  `json:"agent_id"`
	Owner        string  `json:"owner"`
	Status       string  `json:"status"`
	AuthorizedBy string  `json:"authorized_by"`
	Generation   int     `json:"generation"`
	Stage        string  `json:"stage"`
	Resets       int     `json:"resets"`
	Vitality     float64 `json:"vitality"`
	Joy          float64 `json:"joy"`
	Pressure     float64 `json:"pressure"`
	Doubt        float64 `json:"doubt"`
	Courage      float64 `json:"courage"`
	Passion      float64 `json:"passion"`
	Hope         float64 `json:"hope"`
}

// Status returns the agent state, journal size, chain head, and the manifest
// root binding both together.
func (s *Service) Status(ctx context.Context) (Report, error) {
	ctx, span := s.tracer.Start(ctx, "agent.Status")
	defer span.End()

	state, err := s.Init(ctx)
	if err != nil {
		return Report{}, err
	}
	count, err := s.store.CountEvents(ctx, s.agentID)
	if err != nil {
		return Report{}, fmt.Errorf("count events: %w", err)
	}

	head := ""
	if count > 0 {
		latest, err := s.store.LatestEvent(ctx, s.agentID)
		if err != nil {
			return Report{}, fmt.Errorf("latest event: %w", err)
		}
		head = latest.ChainHash
	}

	root, err := ManifestRoot(head, state)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		State:        state,
		ProofCount:   count,
		ChainHead:    head,
		ManifestRoot: root,
	}
	if s.heart != nil {
		report.Heartbeat = HeartbeatStats{
			PulseCount: s.heart.PulseCount(),
			Tasks:      s.heart.Stats(),
		}
	}
	return report, nil
}

// ManifestRoot hashes the chain head together with the canonical state JSON.
// Anyone holding the journal and the state can recompute and compare it.
func ManifestRoot(chainHead string, state domain.State) (string, error) {
	data, err := json.Marshal(manifestState{
		AgentID:      state.AgentID,
		Owner:        state.Owner,
		Status:       string(state.Status),
		AuthorizedBy: state.AuthorizedBy,
		Generation:   state.Generation,
		Stage:        string(state.Stage),
		Resets:       state.Resets,
		Vitality:     state.Vitality,
		Joy:          state.Feelings.Joy,
		Pressure:     state.Feelings.Pressure,
		Doubt:        state.Feelings.Doubt,
		Courage:      state.Feelings.Courage,
		Passion:      state.Feelings.Passion,
		Hope:         state.Feelings.Hope,
	})
	if err != nil {
		return "", fmt.Errorf("marshal manifest state: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(chainHead))
	h.Write([]byte(":"))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
