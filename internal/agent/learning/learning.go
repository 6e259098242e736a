// Package learning extracts topics and question patterns from interactions
// and distills periodic insights.
package learning

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// Insights are generated every insightInterval interactions.
const insightInterval = 10

// Store is the persistence surface the protocol needs.
type Store interface {
	RecordInteraction(ctx context.Context, record storage.InteractionRecord) (storage.InteractionRecord, error)
	CountInteractions(ctx context.Context, agentID string) (int, error)
	TopicCounts(ctx context.Context, agentID string) (map[string]int, error)
	Patterns(ctx context.Context, agentID string) ([]string, error)
	RecordInsight(ctx context.Context, record storage.InsightRecord) error
	CountInsights(ctx context.Context, agentID string) (int, error)
}

// Protocol learns from every interaction for one agent.
type Protocol struct {
	store   Store
	agentID string
}

// NewProtocol returns a learning protocol bound to an agent.
func NewProtocol(store Store, agentID string) *Protocol {
	return &Protocol{store: store, agentID: agentID}
}

// Result describes what one interaction taught.
type Result struct {
	Topic             string
	Pattern           string
	TotalInteractions int
	Insight           string
}

// Learn records an interaction, extracting its topic and pattern, and
// generates an insight on every tenth interaction.
func (p *Protocol) Learn(ctx context.Context, question string) (Result, error) {
	if strings.TrimSpace(question) == "" {
		return Result{}, fmt.Errorf("question is required")
	}

	topic := ExtractTopic(question)
	pattern := ExtractPattern(question)

	if _, err := p.store.RecordInteraction(ctx, storage.InteractionRecord{
		AgentID:  p.agentID,
		Topic:    topic,
		Pattern:  pattern,
		Question: truncate(question, 100),
	}); err != nil {
		return Result{}, fmt.Errorf("record interaction: %w", err)
	}

	total, err := p.store.CountInteractions(ctx, p.agentID)
	if err != nil {
		return Result{}, fmt.Errorf("count interactions: %w", err)
	}

	result := Result{Topic: topic, Pattern: pattern, TotalInteractions: total}
	if total%insightInterval == 0 {
		insight, err := p.generateInsight(ctx)
		if err != nil {
			return Result{}, err
		}
		if insight != "" {
			if err := p.store.RecordInsight(ctx, storage.InsightRecord{
				AgentID:       p.agentID,
				Insight:       insight,
				AtInteraction: total,
			}); err != nil {
				return Result{}, fmt.Errorf("record insight: %w", err)
			}
			result.Insight = insight
		}
	}
	return result, nil
}

// Summary aggregates what the agent has learned so far.
type Summary struct {
	TotalInteractions  int
	TopicsLearned      int
	PatternsIdentified int
	InsightsGenerated  int
	TopicCounts        map[string]int
}

// Summarize returns the learning summary.
func (p *Protocol) Summarize(ctx context.Context) (Summary, error) {
	total, err := p.store.CountInteractions(ctx, p.agentID)
	if err != nil {
		return Summary{}, fmt.Errorf("count interactions: %w", err)
	}
	topics, err := p.store.TopicCounts(ctx, p.agentID)
	if err != nil {
		return Summary{}, fmt.Errorf("topic counts: %w", err)
	}
	patterns, err := p.store.Patterns(ctx, p.agentID)
	if err != nil {
		return Summary{}, fmt.Errorf("patterns: %w", err)
	}
	insights, err := p.store.CountInsights(ctx, p.agentID)
	if err != nil {
		return Summary{}, fmt.Errorf("count insights: %w", err)
	}
	return Summary{
		TotalInteractions:  total,
		TopicsLearned:      len(topics),
		PatternsIdentified: len(patterns),
		InsightsGenerated:  insights,
		TopicCounts:        topics,
	}, nil
}

func (p *Protocol) generateInsight(ctx context.Context) (string, error) {
	topics, err := p.store.TopicCounts(ctx, p.agentID)
	if err != nil {
		return "", fmt.Errorf("topic counts: %w", err)
	}
	if len(topics) == 0 {
		return "", nil
	}
	topTopic := ""
	topCount := 0
	for topic, count := range topics {
		if count > topCount || (count == topCount && topic < topTopic) {
			topTopic = topic
			topCount = count
		}
	}
	return fmt.Sprintf("Most frequent topic: %s (%d questions)", topTopic, topCount), nil
}

// topicRules maps topics to their trigger keywords; first match wins.
var topicRules = []struct {
	topic    string
	keywords []string
}{
	{"future", []string{"future", "forecast", "prediction", "will happen"}},
	{"technology", []string{"ai", "technology", "software", "computer"}},
	{"philosophy", []string{"meaning", "consciousness", "existence", "being"}},
	{"economy", []string{"money", "investment", "market", "business"}},
	{"people", []string{"who is", "born", "lives"}},
	{"strategy", []string{"how", "strategy", "plan", "achieve"}},
	{"orion", []string{"orion", "you", "your"}},
}

// ExtractTopic classifies a question into a coarse topic.
func ExtractTopic(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range topicRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.topic
			}
		}
	}
	return "general"
}

// ExtractPattern classifies a question's form.
func ExtractPattern(question string) string {
	lower := strings.ToLower(strings.TrimSpace(question))
	switch {
	case strings.HasPrefix(lower, "what"):
		return "what-question"
	case strings.HasPrefix(lower, "how"):
		return "how-question"
	case strings.HasPrefix(lower, "why"):
		return "why-question"
	case strings.HasPrefix(lower, "who"):
		return "who-question"
	case !strings.Contains(question, "?"):
		return "statement"
	}
	return ""
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
