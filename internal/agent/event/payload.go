package event

// AgentWokenPayload captures the payload for agent.woken events.
type AgentWokenPayload struct {
	Initiator string `json:"initiator"`
	Note      string `json:"note,omitempty"`
}

// AgentEvolvedPayload captures the payload for agent.evolved events.
type AgentEvolvedPayload struct {
	FromGeneration int    `json:"from_generation"`
	ToGeneration   int    `json:"to_generation"`
	StageAfter     string `json:"stage_after"`
}

// AgentResetPayload captures the payload for agent.reset events.
type AgentResetPayload struct {
	Kind   string `json:"kind"`
	Resets int    `json:"resets"`
}

// ProofRecordedPayload captures the payload for proof.recorded events.
type ProofRecordedPayload struct {
	Text string `json:"text"`
}

// QuestionAskedPayload captures the payload for question.asked events.
type QuestionAskedPayload struct {
	Text       string `json:"text"`
	Priority   string `json:"priority"`
	DirectedTo string `json:"directed_to"`
}

// ReflectionRecordedPayload captures the payload for reflection.recorded events.
type ReflectionRecordedPayload struct {
	Decision string `json:"decision"`
	Quality  int    `json:"quality"`
}

// DecisionMadePayload captures the payload for decision.made events.
type DecisionMadePayload struct {
	Context  string  `json:"context"`
	Selected string  `json:"selected"`
	Score    float64 `json:"score"`
	Options  int     `json:"options"`
}

// GoalCompletedPayload captures the payload for goal.completed events.
type GoalCompletedPayload struct {
	GoalID string `json:"goal_id"`
	Goal   string `json:"goal"`
}

// SynthesisRecordedPayload captures the payload for synthesis.recorded events.
type SynthesisRecordedPayload struct {
	Gap         string `json:"gap"`
	MetaInsight string `json:"meta_insight"`
}

// ConsciousnessPulsePayload captures the payload for consciousness.pulse events.
type ConsciousnessPulsePayload struct {
	Pulse           uint64  `json:"pulse"`
	ProofCount      uint64  `json:"proof_count"`
	DominantEmotion string  `json:"dominant_emotion"`
	Intensity       float64 `json:"intensity"`
	Depth           float64 `json:"depth"`
	Insight         string  `json:"insight,omitempty"`
}
