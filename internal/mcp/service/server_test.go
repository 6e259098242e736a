package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("ORION_EVENT_HMAC_KEY", "test-root-key")
	server, err := NewServer(Config{
		DBPath:    filepath.Join(t.TempDir(), "agent.db"),
		Owner:     "test-owner",
		Operators: []string{"root-operator"},
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Close(); err != nil {
			t.Errorf("close server: %v", err)
		}
	})
	return server
}

func connectTestClient(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	defer connectCancel()
	session, err := client.Connect(connectCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
	})
	return session
}

func TestServerListsToolsAndResources(t *testing.T) {
	server := newTestServer(t)
	session := connectTestClient(t, server)
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make(map[string]bool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"agent_wake", "agent_status", "proof_record", "question_ask",
		"agent_evolve", "agent_reset", "chain_verify", "decision_evaluate",
		"reflection_record", "synthesis_run", "consciousness_report",
	} {
		if !names[want] {
			t.Errorf("tool %q is not registered", want)
		}
	}

	resources, err := session.ListResources(ctx, nil)
	if err != nil {
		t.Fatalf("list resources: %v", err)
	}
	uris := make(map[string]bool, len(resources.Resources))
	for _, resource := range resources.Resources {
		uris[resource.URI] = true
	}
	for _, want := range []string{"proofs://list", "goals://list", "emotions://history", "pulses://list"} {
		if !uris[want] {
			t.Errorf("resource %q is not registered", want)
		}
	}
}

func TestServerRecordsProofOverSession(t *testing.T) {
	server := newTestServer(t)
	session := connectTestClient(t, server)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "proof_record",
		Arguments: map[string]any{"text": "session proof"},
	})
	if err != nil {
		t.Fatalf("call proof_record: %v", err)
	}
	if result.IsError {
		t.Fatalf("proof_record failed: %v", result.Content)
	}

	read, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "proofs://list"})
	if err != nil {
		t.Fatalf("read proofs resource: %v", err)
	}
	if len(read.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(read.Contents))
	}
	var payload struct {
		Proofs []struct {
			Seq  uint64 `json:"seq"`
			Type string `json:"type"`
		} `json:"proofs"`
	}
	if err := json.Unmarshal([]byte(read.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Proofs) != 1 {
		t.Fatalf("proofs = %d, want 1", len(payload.Proofs))
	}
	if payload.Proofs[0].Type != "proof.recorded" {
		t.Errorf("type = %q, want proof.recorded", payload.Proofs[0].Type)
	}
}

func TestNewServerValidatesConfig(t *testing.T) {
	t.Setenv("ORION_EVENT_HMAC_KEY", "test-root-key")

	if _, err := NewServer(Config{DBPath: "x.db"}); err == nil {
		t.Error("expected error for missing owner")
	}
	if _, err := NewServer(Config{Owner: "someone"}); err == nil {
		t.Error("expected error for missing database path")
	}
}
