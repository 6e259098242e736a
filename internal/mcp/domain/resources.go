package domain

import (
	"context"
	"encoding/json"
	"fmt"

	agentservice "github.com/louisbranch/orion/internal/agent/service"
	"github.com/louisbranch/orion/internal/agent/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// resourceListLimit bounds how many records a list resource returns.
const resourceListLimit = 50

// ProofListResource exposes the newest journal entries.
func ProofListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "proofs_list",
		Title:       "Proof Journal",
		Description: "Newest entries of the tamper-evident proof journal",
		MIMEType:    "application/json",
		URI:         "proofs://list",
	}
}

// ProofEntry is one journal entry in the resource payload.
type ProofEntry struct {
	Seq       uint64 `json:"seq"`
	Type      string `json:"type"`
	ActorType string `json:"actor_type"`
	ActorID   string `json:"actor_id"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	ChainHash string `json:"chain_hash"`
	Payload   any    `json:"payload,omitempty"`
}

// ProofListPayload is the proofs://list resource body.
type ProofListPayload struct {
	Proofs []ProofEntry `json:"proofs"`
}

// ProofListResourceHandler serves the newest journal entries.
func ProofListResourceHandler(svc *agentservice.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		events, err := svc.Journal(ctx, resourceListLimit)
		if err != nil {
			return nil, fmt.Errorf("list journal: %w", err)
		}
		payload := ProofListPayload{Proofs: make([]ProofEntry, 0, len(events))}
		for _, evt := range events {
			entry := ProofEntry{
				Seq:       evt.Seq,
				Type:      string(evt.Type),
				ActorType: string(evt.ActorType),
				ActorID:   evt.ActorID,
				Timestamp: evt.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
				Hash:      evt.Hash,
				ChainHash: evt.ChainHash,
			}
			if len(evt.PayloadJSON) > 0 {
				var body any
				if err := json.Unmarshal(evt.PayloadJSON, &body); err == nil {
					entry.Payload = body
				}
			}
			payload.Proofs = append(payload.Proofs, entry)
		}
		return jsonResource(ProofListResource().URI, req, payload)
	}
}

// GoalListResource exposes the active goals.
func GoalListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "goals_list",
		Title:       "Active Goals",
		Description: "Goals the agent is currently pursuing",
		MIMEType:    "application/json",
		URI:         "goals://list",
	}
}

// GoalEntry is one active goal in the resource payload.
type GoalEntry struct {
	GoalID   string `json:"goal_id"`
	Goal     string `json:"goal"`
	Priority int    `json:"priority"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

// GoalListPayload is the goals://list resource body.
type GoalListPayload struct {
	Goals []GoalEntry `json:"goals"`
}

// GoalListResourceHandler serves the active goals.
func GoalListResourceHandler(svc *agentservice.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		records, err := svc.ActiveGoals(ctx)
		if err != nil {
			return nil, fmt.Errorf("list goals: %w", err)
		}
		payload := GoalListPayload{Goals: make([]GoalEntry, 0, len(records))}
		for _, record := range records {
			payload.Goals = append(payload.Goals, GoalEntry{
				GoalID:   record.GoalID,
				Goal:     record.Goal,
				Priority: record.Priority,
				Progress: record.Progress,
				Status:   record.Status,
			})
		}
		return jsonResource(GoalListResource().URI, req, payload)
	}
}

// EmotionHistoryResource exposes recent emotional resonances.
func EmotionHistoryResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "emotions_history",
		Title:       "Emotional History",
		Description: "Recent emotional resonance records",
		MIMEType:    "application/json",
		URI:         "emotions://history",
	}
}

// EmotionEntry is one resonance record in the resource payload.
type EmotionEntry struct {
	Stimulus  string             `json:"stimulus"`
	Dominant  string             `json:"dominant"`
	Intensity float64            `json:"intensity"`
	Changes   map[string]float64 `json:"changes,omitempty"`
	Timestamp string             `json:"timestamp"`
}

// EmotionHistoryPayload is the emotions://history resource body.
type EmotionHistoryPayload struct {
	Resonances []EmotionEntry `json:"resonances"`
}

// EmotionHistoryResourceHandler serves the recent resonance records.
func EmotionHistoryResourceHandler(svc *agentservice.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		records, err := svc.EmotionHistory(ctx, resourceListLimit)
		if err != nil {
			return nil, fmt.Errorf("list emotional history: %w", err)
		}
		payload := EmotionHistoryPayload{Resonances: make([]EmotionEntry, 0, len(records))}
		for _, record := range records {
			payload.Resonances = append(payload.Resonances, EmotionEntry{
				Stimulus:  record.Stimulus,
				Dominant:  record.Dominant,
				Intensity: record.Intensity,
				Changes:   record.Changes,
				Timestamp: record.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			})
		}
		return jsonResource(EmotionHistoryResource().URI, req, payload)
	}
}

// PulseListResource exposes recent heartbeat pulses.
func PulseListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "pulses_list",
		Title:       "Heartbeat Pulses",
		Description: "Recent heartbeat pulses and the tasks they ran",
		MIMEType:    "application/json",
		URI:         "pulses://list",
	}
}

// PulseEntry is one heartbeat pulse in the resource payload.
type PulseEntry struct {
	Pulse         uint64               `json:"pulse"`
	TasksExecuted int                  `json:"tasks_executed"`
	Details       []storage.TaskResult `json:"details,omitempty"`
	Timestamp     string               `json:"timestamp"`
}

// PulseListPayload is the pulses://list resource body.
type PulseListPayload struct {
	Pulses []PulseEntry `json:"pulses"`
}

// PulseListResourceHandler serves the recent pulse records.
func PulseListResourceHandler(svc *agentservice.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		records, err := svc.Pulses(ctx, resourceListLimit)
		if err != nil {
			return nil, fmt.Errorf("list pulses: %w", err)
		}
		payload := PulseListPayload{Pulses: make([]PulseEntry, 0, len(records))}
		for _, record := range records {
			payload.Pulses = append(payload.Pulses, PulseEntry{
				Pulse:         record.Pulse,
				TasksExecuted: record.TasksExecuted,
				Details:       record.Details,
				Timestamp:     record.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			})
		}
		return jsonResource(PulseListResource().URI, req, payload)
	}
}

func jsonResource(defaultURI string, req *mcp.ReadResourceRequest, payload any) (*mcp.ReadResourceResult, error) {
	uri := defaultURI
	if req != nil && req.Params != nil && req.Params.URI != "" {
		uri = req.Params.URI
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
