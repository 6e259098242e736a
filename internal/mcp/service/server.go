// Package service assembles the MCP server: it binds the agent service to
// the tool and resource handlers and serves them over stdio.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/louisbranch/orion/internal/agent/integrity"
	agentservice "github.com/louisbranch/orion/internal/agent/service"
	"github.com/louisbranch/orion/internal/agent/storage/sqlite"
	"github.com/louisbranch/orion/internal/mcp/domain"
	"github.com/louisbranch/orion/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies the MCP server to clients.
	serverName = "orion"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Config carries everything needed to serve the MCP surface.
type Config struct {
	// DBPath locates the agent database.
	DBPath string
	// Owner is the agent owner identity.
	Owner string
	// Operators are the identities allowed to wake the agent.
	Operators []string
}

// Server wraps the MCP server together with the store it owns.
type Server struct {
	mcpServer *mcp.Server
	store     *sqlite.Store
}

// Run opens the agent store, builds the server, and serves stdio until the
// context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := NewServer(cfg)
	if err != nil {
		return err
	}
	defer server.Close()
	return server.Serve(ctx)
}

// NewServer opens the store described by cfg and registers every tool and
// resource on a fresh MCP server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("owner is required")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	keyring, err := integrity.KeyringFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load signing keyring: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath, keyring)
	if err != nil {
		return nil, fmt.Errorf("open agent store: %w", err)
	}

	svc, err := agentservice.New(agentservice.Config{
		Store:     store,
		Keyring:   keyring,
		Owner:     cfg.Owner,
		Operators: cfg.Operators,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build agent service: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerAll(mcpServer, svc)

	return &Server{mcpServer: mcpServer, store: store}, nil
}

// registerAll binds every tool and resource to the agent service. Tool
// invocations are capped at timeouts.MCPTool so a wedged store cannot stall
// the stdio session indefinitely.
func registerAll(server *mcp.Server, svc *agentservice.Service) {
	mcp.AddTool(server, domain.AgentWakeTool(), withTimeout(domain.AgentWakeHandler(svc)))
	mcp.AddTool(server, domain.AgentStatusTool(), withTimeout(domain.AgentStatusHandler(svc)))
	mcp.AddTool(server, domain.ProofRecordTool(), withTimeout(domain.ProofRecordHandler(svc)))
	mcp.AddTool(server, domain.QuestionAskTool(), withTimeout(domain.QuestionAskHandler(svc)))
	mcp.AddTool(server, domain.AgentEvolveTool(), withTimeout(domain.AgentEvolveHandler(svc)))
	mcp.AddTool(server, domain.AgentResetTool(), withTimeout(domain.AgentResetHandler(svc)))
	mcp.AddTool(server, domain.ChainVerifyTool(), withTimeout(domain.ChainVerifyHandler(svc)))
	mcp.AddTool(server, domain.DecisionEvaluateTool(), withTimeout(domain.DecisionEvaluateHandler(svc)))
	mcp.AddTool(server, domain.ReflectionRecordTool(), withTimeout(domain.ReflectionRecordHandler(svc)))
	mcp.AddTool(server, domain.SynthesisRunTool(), withTimeout(domain.SynthesisRunHandler(svc)))
	mcp.AddTool(server, domain.ConsciousnessReportTool(), withTimeout(domain.ConsciousnessReportHandler(svc)))

	server.AddResource(domain.ProofListResource(), domain.ProofListResourceHandler(svc))
	server.AddResource(domain.GoalListResource(), domain.GoalListResourceHandler(svc))
	server.AddResource(domain.EmotionHistoryResource(), domain.EmotionHistoryResourceHandler(svc))
	server.AddResource(domain.PulseListResource(), domain.PulseListResourceHandler(svc))
}

func withTimeout[In, Out any](handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.MCPTool)
		defer cancel()
		return handler(callCtx, req, input)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	return s.mcpServer.Run(ctx, transport)
}

// Close releases the store held by the server.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
