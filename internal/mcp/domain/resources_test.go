package domain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestProofListResourceHandler(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordProof(ctx, "resource listing proof"); err != nil {
		t.Fatalf("record proof: %v", err)
	}

	handler := ProofListResourceHandler(svc)
	result, err := handler(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != "proofs://list" {
		t.Errorf("uri = %q, want proofs://list", content.URI)
	}
	if content.MIMEType != "application/json" {
		t.Errorf("mime type = %q, want application/json", content.MIMEType)
	}

	var payload ProofListPayload
	if err := json.Unmarshal([]byte(content.Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Proofs) != 1 {
		t.Fatalf("proofs = %d, want 1", len(payload.Proofs))
	}
	if payload.Proofs[0].Type != "proof.recorded" {
		t.Errorf("type = %q, want proof.recorded", payload.Proofs[0].Type)
	}
	if payload.Proofs[0].ChainHash == "" {
		t.Error("chain hash is empty")
	}
}

func TestGoalListResourceHandler(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SetGoal(ctx, "Understand the journal format", 8); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	handler := GoalListResourceHandler(svc)
	result, err := handler(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload GoalListPayload
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Goals) != 1 {
		t.Fatalf("goals = %d, want 1", len(payload.Goals))
	}
	if payload.Goals[0].Goal != "Understand the journal format" {
		t.Errorf("goal = %q", payload.Goals[0].Goal)
	}
	if payload.Goals[0].Priority != 8 {
		t.Errorf("priority = %d, want 8", payload.Goals[0].Priority)
	}
}

func TestEmotionHistoryResourceHandler(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.AskQuestion(ctx, "What a wonderful discovery this is!", "normal"); err != nil {
		t.Fatalf("ask question: %v", err)
	}

	handler := EmotionHistoryResourceHandler(svc)
	result, err := handler(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload EmotionHistoryPayload
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Resonances) == 0 {
		t.Fatal("resonances are empty")
	}
	if !strings.Contains(payload.Resonances[0].Stimulus, "wonderful") {
		t.Errorf("stimulus = %q, want the question text", payload.Resonances[0].Stimulus)
	}
}

func TestPulseListResourceHandlerEmpty(t *testing.T) {
	svc := newTestService(t)

	handler := PulseListResourceHandler(svc)
	result, err := handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload PulseListPayload
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Pulses) != 0 {
		t.Errorf("pulses = %d, want 0", len(payload.Pulses))
	}
}
