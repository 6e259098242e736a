package event

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// envelope is the canonical hash input for an event. Field order is fixed
// here and nowhere else so the chain format cannot drift between layers.
type envelope struct {
	AgentID   string          `json:"agent_id"`
	Seq       uint64          `json:"seq"`
	Timestamp int64           `json:"ts_ms"`
	Type      Type            `json:"type"`
	ActorType ActorType       `json:"actor_type"`
	ActorID   string          `json:"actor_id"`
	Payload   json.RawMessage `json:"payload"`
}

func canonicalEnvelope(evt Event) ([]byte, error) {
	if strings.TrimSpace(evt.AgentID) == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if !evt.Type.IsValid() {
		return nil, fmt.Errorf("event type is required")
	}
	if evt.Seq == 0 {
		return nil, fmt.Errorf("event seq is required")
	}
	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	data, err := json.Marshal(envelope{
		AgentID:   evt.AgentID,
		Seq:       evt.Seq,
		Timestamp: evt.Timestamp.UTC().UnixMilli(),
		Type:      evt.Type,
		ActorType: evt.ActorType,
		ActorID:   evt.ActorID,
		Payload:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// EventHash computes the content hash for a single event envelope.
func EventHash(evt Event) (string, error) {
	data, err := canonicalEnvelope(evt)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ChainHash computes the SHA-256 hash that links an event to its predecessor:
// SHA-256(prevHash ":" canonical envelope JSON). The genesis event uses an
// empty previous hash.
func ChainHash(evt Event, prevHash string) (string, error) {
	data, err := canonicalEnvelope(evt)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(prevHash))
	h.Write([]byte(":"))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
