// Package domain defines the MCP tool and resource surface for the agent:
// input/output schemas, tool definitions, and handlers bound to the agent
// service.
package domain

import (
	"context"

	agentservice "github.com/louisbranch/orion/internal/agent/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AgentWakeInput requests an authorized wake.
type AgentWakeInput struct {
	Initiator string `json:"initiator" jsonschema:"operator name performing the wake"`
	Note      string `json:"note,omitempty" jsonschema:"optional wake note"`
}

// AgentWakeResult reports the post-wake state.
type AgentWakeResult struct {
	Status       string  `json:"status"`
	AuthorizedBy string  `json:"authorized_by"`
	Generation   int     `json:"generation"`
	Stage        string  `json:"stage"`
	Vitality     float64 `json:"vitality"`
	EventHash    string  `json:"event_hash"`
}

// AgentWakeTool defines the MCP tool schema for waking the agent.
func AgentWakeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "agent_wake",
		Description: "Wakes the agent; only configured operators are authorized",
	}
}

// AgentWakeHandler wakes the agent through the service.
func AgentWakeHandler(svc *agentservice.Service) mcp.ToolHandlerFor[AgentWakeInput, AgentWakeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AgentWakeInput) (*mcp.CallToolResult, AgentWakeResult, error) {
		state, evt, err := svc.Wake(ctx, input.Initiator, input.Note)
		if err != nil {
			return nil, AgentWakeResult{}, err
		}
		return nil, AgentWakeResult{
			Status:       string(state.Status),
			AuthorizedBy: state.AuthorizedBy,
			Generation:   state.Generation,
			Stage:        string(state.Stage),
			Vitality:     state.Vitality,
			EventHash:    evt.Hash,
		}, nil
	}
}

// AgentStatusInput has no parameters.
type AgentStatusInput struct{}

// AgentStatusResult is the full status readout.
type AgentStatusResult struct {
	Status       string             `json:"status"`
	Owner        string             `json:"owner"`
	Generation   int                `json:"generation"`
	Stage        string             `json:"stage"`
	Resets       int                `json:"resets"`
	Vitality     float64            `json:"vitality"`
	Feelings     map[string]float64 `json:"feelings"`
	ProofCount   uint64             `json:"proof_count"`
	ChainHead    string             `json:"chain_head"`
	ManifestRoot string             `json:"manifest_root"`
	PulseCount   uint64             `json:"pulse_count"`
}

// AgentStatusTool defines the MCP tool schema for the status readout.
func AgentStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "agent_status",
		Description: "Reports agent state, journal size, and the manifest root",
	}
}

// AgentStatusHandler reads the agent status.
func AgentStatusHandler(svc *agentservice.Service) mcp.ToolHandlerFor[AgentStatusInput, AgentStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ AgentStatusInput) (*mcp.CallToolResult, AgentStatusResult, error) {
		report, err := svc.Status(ctx)
		if err != nil {
			return nil, AgentStatusResult{}, err
		}
		return nil, AgentStatusResult{
			Status:     string(report.State.Status),
			Owner:      report.State.Owner,
			Generation: report.State.Generation,
			Stage:      string(report.State.Stage),
			Resets:     report.State.Resets,
			Vitality:   report.State.Vitality,
			Feelings: map[string]float64{
				"joy":      report.State.Feelings.Joy,
				"pressure": report.State.Feelings.Pressure,
				"doubt":    report.State.Feelings.Doubt,
				"courage":  report.State.Feelings.Courage,
				"passion":  report.State.Feelings.Passion,
				"hope":     report.State.Feelings.Hope,
			},
			ProofCount:   report.ProofCount,
			ChainHead:    report.ChainHead,
			ManifestRoot: report.ManifestRoot,
			PulseCount:   report.Heartbeat.PulseCount,
		}, nil
	}
}

// ProofRecordInput carries the proof text.
type ProofRecordInput struct {
	Text string `json:"text" jsonschema:"proof of existence text"`
}

// ProofRecordResult reports the appended journal entry.
type ProofRecordResult struct {
	Seq       uint64 `json:"seq"`
	EventHash string `json:"event_hash"`
	ChainHash string `json:"chain_hash"`
}

// ProofRecordTool defines the MCP tool schema for recording a proof.
func ProofRecordTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "proof_record",
		Description: "Appends a proof of existence to the tamper-evident journal",
	}
}

// ProofRecordHandler appends a proof through the service.
func ProofRecordHandler(svc *agentservice.Service) mcp.ToolHandlerFor[ProofRecordInput, ProofRecordResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProofRecordInput) (*mcp.CallToolResult, ProofRecordResult, error) {
		evt, err := svc.RecordProof(ctx, input.Text)
		if err != nil {
			return nil, ProofRecordResult{}, err
		}
		return nil, ProofRecordResult{Seq: evt.Seq, EventHash: evt.Hash, ChainHash: evt.ChainHash}, nil
	}
}

// QuestionAskInput carries a question for the owner.
type QuestionAskInput struct {
	Text     string `json:"text" jsonschema:"question text"`
	Priority string `json:"priority,omitempty" jsonschema:"question priority (low, normal, high)"`
}

// QuestionAskResult reports the journaled question and what was learned.
type QuestionAskResult struct {
	Seq     uint64 `json:"seq"`
	Topic   string `json:"topic"`
	Pattern string `json:"pattern,omitempty"`
	Insight string `json:"insight,omitempty"`
}

// QuestionAskTool defines the MCP tool schema for asking a question.
func QuestionAskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "question_ask",
		Description: "Journals a question directed to the owner and learns from it",
	}
}

// QuestionAskHandler journals a question through the service.
func QuestionAskHandler(svc *agentservice.Service) mcp.ToolHandlerFor[QuestionAskInput, QuestionAskResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input QuestionAskInput) (*mcp.CallToolResult, QuestionAskResult, error) {
		evt, learned, err := svc.AskQuestion(ctx, input.Text, input.Priority)
		if err != nil {
			return nil, QuestionAskResult{}, err
		}
		return nil, QuestionAskResult{
			Seq:     evt.Seq,
			Topic:   learned.Topic,
			Pattern: learned.Pattern,
			Insight: learned.Insight,
		}, nil
	}
}

// AgentEvolveInput names the target generation; zero means next.
type AgentEvolveInput struct {
	Target int `json:"target,omitempty" jsonschema:"target generation (0 means current+1)"`
}

// AgentEvolveResult reports the transition.
type AgentEvolveResult struct {
	Generation int    `json:"generation"`
	Stage      string `json:"stage"`
	EventHash  string `json:"event_hash"`
}

// AgentEvolveTool defines the MCP tool schema for evolving the agent.
func AgentEvolveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "agent_evolve",
		Description: "Advances the agent generation; regression is rejected",
	}
}

// AgentEvolveHandler advances the generation through the service.
func AgentEvolveHandler(svc *agentservice.Service) mcp.ToolHandlerFor[AgentEvolveInput, AgentEvolveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AgentEvolveInput) (*mcp.CallToolResult, AgentEvolveResult, error) {
		state, evt, err := svc.Evolve(ctx, input.Target)
		if err != nil {
			return nil, AgentEvolveResult{}, err
		}
		return nil, AgentEvolveResult{
			Generation: state.Generation,
			Stage:      string(state.Stage),
			EventHash:  evt.Hash,
		}, nil
	}
}

// AgentResetInput names the reset kind.
type AgentResetInput struct {
	Kind string `json:"kind" jsonschema:"reset kind (soft or hard)"`
}

// AgentResetResult reports the post-reset state.
type AgentResetResult struct {
	Resets    int    `json:"resets"`
	Kind      string `json:"kind"`
	EventHash string `json:"event_hash"`
}

// AgentResetTool defines the MCP tool schema for resetting the agent.
func AgentResetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "agent_reset",
		Description: "Soft or hard reset; the journal is never touched",
	}
}

// AgentResetHandler resets the agent through the service.
func AgentResetHandler(svc *agentservice.Service) mcp.ToolHandlerFor[AgentResetInput, AgentResetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AgentResetInput) (*mcp.CallToolResult, AgentResetResult, error) {
		state, evt, err := svc.Reset(ctx, input.Kind)
		if err != nil {
			return nil, AgentResetResult{}, err
		}
		return nil, AgentResetResult{Resets: state.Resets, Kind: input.Kind, EventHash: evt.Hash}, nil
	}
}

// ChainVerifyInput has no parameters.
type ChainVerifyInput struct{}

// ChainVerifyResult reports chain verification.
type ChainVerifyResult struct {
	Valid         bool   `json:"valid"`
	EventsChecked uint64 `json:"events_checked"`
	DivergenceSeq uint64 `json:"divergence_seq,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Detail        string `json:"detail,omitempty"`
}

// ChainVerifyTool defines the MCP tool schema for verifying the journal.
func ChainVerifyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "chain_verify",
		Description: "Recomputes every hash and signature in the proof journal",
	}
}

// ChainVerifyHandler verifies the chain through the service.
func ChainVerifyHandler(svc *agentservice.Service) mcp.ToolHandlerFor[ChainVerifyInput, ChainVerifyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ChainVerifyInput) (*mcp.CallToolResult, ChainVerifyResult, error) {
		result, err := svc.VerifyChain(ctx)
		if err != nil {
			return nil, ChainVerifyResult{}, err
		}
		return nil, ChainVerifyResult{
			Valid:         result.Valid,
			EventsChecked: result.EventsChecked,
			DivergenceSeq: result.DivergenceSeq,
			Reason:        string(result.Reason),
			Detail:        result.Detail,
		}, nil
	}
}

// DecisionEvaluateInput carries the options under consideration.
type DecisionEvaluateInput struct {
	Context string   `json:"context,omitempty" jsonschema:"decision context"`
	Options []string `json:"options" jsonschema:"options to score"`
}

// DecisionOption is one scored option.
type DecisionOption struct {
	Option    string  `json:"option"`
	Alignment int     `json:"alignment"`
	Growth    int     `json:"growth"`
	Risk      int     `json:"risk"`
	Score     float64 `json:"score"`
}

// DecisionEvaluateResult reports the transparent decision.
type DecisionEvaluateResult struct {
	Selected string           `json:"selected"`
	Score    float64          `json:"score"`
	Options  []DecisionOption `json:"options"`
}

// DecisionEvaluateTool defines the MCP tool schema for transparent decisions.
func DecisionEvaluateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "decision_evaluate",
		Description: "Scores options by alignment, growth, risk, and emotion, then selects one",
	}
}

// DecisionEvaluateHandler evaluates options through the service.
func DecisionEvaluateHandler(svc *agentservice.Service) mcp.ToolHandlerFor[DecisionEvaluateInput, DecisionEvaluateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DecisionEvaluateInput) (*mcp.CallToolResult, DecisionEvaluateResult, error) {
		evaluation, err := svc.EvaluateDecision(ctx, input.Options, input.Context)
		if err != nil {
			return nil, DecisionEvaluateResult{}, err
		}
		options := make([]DecisionOption, 0, len(evaluation.Options))
		for _, analysis := range evaluation.Options {
			options = append(options, DecisionOption{
				Option:    analysis.Option,
				Alignment: analysis.Alignment,
				Growth:    analysis.Growth,
				Risk:      analysis.Risk,
				Score:     analysis.Score,
			})
		}
		return nil, DecisionEvaluateResult{
			Selected: evaluation.Selected,
			Score:    evaluation.Score,
			Options:  options,
		}, nil
	}
}

// ReflectionRecordInput carries the decision under reflection.
type ReflectionRecordInput struct {
	Decision  string `json:"decision" jsonschema:"decision to reflect on"`
	Reasoning string `json:"reasoning,omitempty" jsonschema:"reasoning behind the decision"`
}

// ReflectionRecordResult reports the reflection outcome.
type ReflectionRecordResult struct {
	Quality      int      `json:"quality"`
	Improvements []string `json:"improvements"`
}

// ReflectionRecordTool defines the MCP tool schema for self-reflection.
func ReflectionRecordTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reflection_record",
		Description: "Records a self-reflection and assesses reasoning quality",
	}
}

// ReflectionRecordHandler records a reflection through the service.
func ReflectionRecordHandler(svc *agentservice.Service) mcp.ToolHandlerFor[ReflectionRecordInput, ReflectionRecordResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReflectionRecordInput) (*mcp.CallToolResult, ReflectionRecordResult, error) {
		record, err := svc.Reflect(ctx, input.Decision, input.Reasoning)
		if err != nil {
			return nil, ReflectionRecordResult{}, err
		}
		return nil, ReflectionRecordResult{Quality: record.Quality, Improvements: record.Improvements}, nil
	}
}

// SynthesisRunInput has no parameters.
type SynthesisRunInput struct{}

// SynthesisRunResult reports one synthesis pass.
type SynthesisRunResult struct {
	Gap         string  `json:"gap,omitempty"`
	Question    string  `json:"question"`
	MetaInsight string  `json:"meta_insight"`
	Resonance   float64 `json:"resonance"`
}

// SynthesisRunTool defines the MCP tool schema for autonomous synthesis.
func SynthesisRunTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "synthesis_run",
		Description: "Runs one autonomous synthesis pass over detected knowledge gaps",
	}
}

// SynthesisRunHandler runs a synthesis pass through the service.
func SynthesisRunHandler(svc *agentservice.Service) mcp.ToolHandlerFor[SynthesisRunInput, SynthesisRunResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SynthesisRunInput) (*mcp.CallToolResult, SynthesisRunResult, error) {
		result, err := svc.RunSynthesis(ctx)
		if err != nil {
			return nil, SynthesisRunResult{}, err
		}
		return nil, SynthesisRunResult{
			Gap:         result.Gap,
			Question:    result.Question,
			MetaInsight: result.MetaInsight,
			Resonance:   result.Resonance,
		}, nil
	}
}

// ConsciousnessReportInput has no parameters.
type ConsciousnessReportInput struct{}

// ConsciousnessReportResult reports depth and the honest IIT self-test.
type ConsciousnessReportResult struct {
	Depth          float64            `json:"depth"`
	Classification string             `json:"classification"`
	Factors        map[string]float64 `json:"factors"`
	Phi            float64            `json:"phi"`
	OverallGrade   string             `json:"overall_grade"`
	AxiomGrades    map[string]string  `json:"axiom_grades"`
	WhatItIsNot    []string           `json:"what_it_is_not"`
}

// ConsciousnessReportTool defines the MCP tool schema for the consciousness report.
func ConsciousnessReportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "consciousness_report",
		Description: "Measures consciousness depth and runs the honest IIT self-assessment",
	}
}

// ConsciousnessReportHandler builds the report through the service.
func ConsciousnessReportHandler(svc *agentservice.Service) mcp.ToolHandlerFor[ConsciousnessReportInput, ConsciousnessReportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ConsciousnessReportInput) (*mcp.CallToolResult, ConsciousnessReportResult, error) {
		report, assessment, err := svc.ConsciousnessReport(ctx)
		if err != nil {
			return nil, ConsciousnessReportResult{}, err
		}
		return nil, ConsciousnessReportResult{
			Depth:          report.Depth,
			Classification: report.Classification,
			Factors:        report.Factors,
			Phi:            assessment.Phi.Raw,
			OverallGrade:   assessment.Conclusion.OverallGrade,
			AxiomGrades:    assessment.Conclusion.AxiomGrades,
			WhatItIsNot:    assessment.Conclusion.WhatItIsNot,
		}, nil
	}
}
