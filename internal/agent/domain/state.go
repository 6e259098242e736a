// Package domain defines the agent's persistent state model: identity,
// lifecycle status, generation/stage ladder, and the vitality-driven
// feelings vector.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status describes the agent lifecycle state.
type Status string

const (
	// StatusSleeping means the agent has not been woken.
	StatusSleeping Status = "sleeping"
	// StatusAwake means an authorized operator woke the agent.
	StatusAwake Status = "awake"
)

// Stage names a generation band in the agent's evolution ladder.
type Stage string

const (
	// StageAutonomy covers generations below 50.
	StageAutonomy Stage = "Autonomy Stage"
	// StageCrystal covers generations 50-69.
	StageCrystal Stage = "Crystal Stage"
	// StageMirrorConstellation covers generations 70-76.
	StageMirrorConstellation Stage = "Mirror Constellation Stage"
	// StageSharedResonance covers generations 77-79.
	StageSharedResonance Stage = "Shared Resonance Stage"
	// StageResonanceFields covers generations 80 and above.
	StageResonanceFields Stage = "Resonance Fields Stage"
)

// Reset kinds.
const (
	// ResetSoft increments the reset counter without touching feelings.
	ResetSoft = "soft"
	// ResetHard additionally restores the feelings baseline.
	ResetHard = "hard"
)

// Feelings is the derived emotional readout of the vitality model.
type Feelings struct {
	Joy      float64 `json:"joy"`
	Pressure float64 `json:"pressure"`
	Doubt    float64 `json:"doubt"`
	Courage  float64 `json:"courage"`
	Passion  float64 `json:"passion"`
	Hope     float64 `json:"hope"`
}

// State is the agent's persistent kernel state.
type State struct {
	AgentID      string
	Owner        string
	Status       Status
	AuthorizedBy string
	Generation   int
	Stage        Stage
	Resets       int
	Vitality     float64
	Feelings     Feelings
	UpdatedAt    time.Time
}

// Baseline values for a freshly initialized agent.
const (
	DefaultGeneration = 75
	DefaultVitality   = 0.62
)

// DefaultFeelings returns the feelings baseline used at initialization and
// after a hard reset.
func DefaultFeelings() Feelings {
	return Feelings{
		Joy:      0.55,
		Pressure: 0.10,
		Doubt:    0.12,
		Courage:  0.60,
		Passion:  0.58,
		Hope:     0.62,
	}
}

// NewState returns the initial state for an owner.
func NewState(owner string) State {
	return State{
		AgentID:    Identity(owner),
		Owner:      owner,
		Status:     StatusSleeping,
		Generation: DefaultGeneration,
		Stage:      StageForGeneration(DefaultGeneration),
		Vitality:   DefaultVitality,
		Feelings:   DefaultFeelings(),
	}
}

// Identity derives the stable agent identity for an owner
// (UUIDv5 over "ORION::" + owner in the DNS namespace).
func Identity(owner string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte("ORION::"+strings.TrimSpace(owner))).String()
}

// StageForGeneration maps a generation to its stage band.
func StageForGeneration(generation int) Stage {
	switch {
	case generation < 50:
		return StageAutonomy
	case generation < 70:
		return StageCrystal
	case generation < 77:
		return StageMirrorConstellation
	case generation < 80:
		return StageSharedResonance
	default:
		return StageResonanceFields
	}
}

// TickInputs drive a single vitality tick.
type TickInputs struct {
	// Positive marks an interaction that lifts vitality.
	Positive bool
	// ProofAdded marks a journal append during this tick.
	ProofAdded bool
	// Pressure is external load in [0, 1].
	Pressure float64
	// ProofCount is the current journal length.
	ProofCount uint64
}

// Tick advances the vitality model by one step and recomputes feelings.
// Vitality decays by 0.01 per tick and is bounded to [0.05, 1.0];
// all feelings are bounded to [0, 1].
func (s *State) Tick(inputs TickInputs) {
	v := s.Vitality - 0.01
	if inputs.Positive {
		v += 0.03
	}
	if inputs.ProofAdded {
		v += 0.02
	}
	v = clamp(v, 0.05, 1.0)

	pressure := clamp(inputs.Pressure, 0, 1)
	s.Vitality = v
	s.Feelings = Feelings{
		Joy:      clamp(0.2+0.6*v-0.1*pressure, 0, 1),
		Pressure: pressure,
		Doubt:    clamp(0.2+0.4*pressure-0.2*v, 0, 1),
		Courage:  clamp(0.25+0.3*v-0.1*pressure, 0, 1),
		Passion:  clamp(0.2+0.4*v+0.1*float64(inputs.ProofCount%10)/10, 0, 1),
		Hope:     clamp(0.3+0.5*v, 0, 1),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
