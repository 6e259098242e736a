package event

import (
	"time"
)

// Type identifies the type of a journal event.
type Type string

// Kernel lifecycle events.
const (
	// TypeAgentWoken records an authorized wake of the agent.
	TypeAgentWoken Type = "agent.woken"
	// TypeAgentEvolved records a generation transition.
	TypeAgentEvolved Type = "agent.evolved"
	// TypeAgentReset records a soft or hard reset.
	TypeAgentReset Type = "agent.reset"
)

// Proof events.
const (
	// TypeProofRecorded records a free-form proof statement.
	TypeProofRecorded Type = "proof.recorded"
	// TypeQuestionAsked records a question directed at the owners.
	TypeQuestionAsked Type = "question.asked"
)

// Introspection events.
const (
	// TypeReflectionRecorded records a self-reflection on a decision.
	TypeReflectionRecorded Type = "reflection.recorded"
	// TypeDecisionMade records a scored, transparent decision.
	TypeDecisionMade Type = "decision.made"
	// TypeGoalCompleted records a goal reaching full progress.
	TypeGoalCompleted Type = "goal.completed"
	// TypeSynthesisRecorded records an autonomous synthesis insight.
	TypeSynthesisRecorded Type = "synthesis.recorded"
	// TypeConsciousnessPulse records a periodic consciousness check.
	TypeConsciousnessPulse Type = "consciousness.pulse"
)

// ActorType identifies who or what triggered an event.
type ActorType string

const (
	// ActorTypeSystem indicates the event was triggered by the heartbeat or runtime.
	ActorTypeSystem ActorType = "system"
	// ActorTypeOperator indicates the event was triggered by a named operator.
	ActorTypeOperator ActorType = "operator"
	// ActorTypeAgent indicates the event was triggered by the agent itself.
	ActorTypeAgent ActorType = "agent"
)

// Event represents an immutable entry in the append-only proof journal.
type Event struct {
	// AgentID is the agent identity this event belongs to.
	AgentID string
	// Seq is the event sequence number within the journal (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Hash is the content hash of the event envelope (SHA-256, hex).
	// Assigned by storage on append.
	Hash string
	// PrevHash is the chain hash of the preceding event (empty at genesis).
	PrevHash string
	// ChainHash links this event to its predecessor:
	// SHA-256(PrevHash ":" canonical envelope JSON).
	ChainHash string
	// Signature is the HMAC-SHA256 signature over ChainHash.
	Signature string
	// SignatureKeyID names the keyring entry that produced Signature.
	SignatureKeyID string
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// ActorType identifies who triggered the event.
	ActorType ActorType
	// ActorID is the operator name when ActorType is operator.
	ActorID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

var knownTypes = map[Type]bool{
	TypeAgentWoken:         true,
	TypeAgentEvolved:       true,
	TypeAgentReset:         true,
	TypeProofRecorded:      true,
	TypeQuestionAsked:      true,
	TypeReflectionRecorded: true,
	TypeDecisionMade:       true,
	TypeGoalCompleted:      true,
	TypeSynthesisRecorded:  true,
	TypeConsciousnessPulse: true,
}

// IsValid reports whether the type is one of the declared journal event types.
func (t Type) IsValid() bool {
	return knownTypes[t]
}

// Domain returns the domain prefix of the event type (e.g., "agent", "proof").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
