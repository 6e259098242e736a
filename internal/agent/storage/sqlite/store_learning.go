package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// RecordInteraction persists one learned interaction.
func (s *Store) RecordInteraction(ctx context.Context, record storage.InteractionRecord) (storage.InteractionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.InteractionRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.InteractionRecord{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.AgentID) == "" {
		return storage.InteractionRecord{}, fmt.Errorf("agent id is required")
	}
	if strings.TrimSpace(record.Topic) == "" {
		return storage.InteractionRecord{}, fmt.Errorf("topic is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO interactions (
	agent_id,
	topic,
	pattern,
	question,
	created_at
) VALUES (?, ?, ?, ?, ?)
`,
		record.AgentID,
		record.Topic,
		record.Pattern,
		record.Question,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return storage.InteractionRecord{}, fmt.Errorf("record interaction: %w", err)
	}
	record.ID, err = result.LastInsertId()
	if err != nil {
		return storage.InteractionRecord{}, fmt.Errorf("interaction id: %w", err)
	}
	return record, nil
}

// CountInteractions returns the number of learned interactions.
func (s *Store) CountInteractions(ctx context.Context, agentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return 0, fmt.Errorf("agent id is required")
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM interactions WHERE agent_id = ?",
		agentID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return count, nil
}

// TopicCounts returns interaction counts grouped by topic.
func (s *Store) TopicCounts(ctx context.Context, agentID string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("agent id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT topic, COUNT(*) FROM interactions WHERE agent_id = ? GROUP BY topic",
		agentID,
	)
	if err != nil {
		return nil, fmt.Errorf("topic counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var topic string
		var count int
		if err := rows.Scan(&topic, &count); err != nil {
			return nil, fmt.Errorf("scan topic count: %w", err)
		}
		counts[topic] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic counts: %w", err)
	}
	return counts, nil
}

// Patterns returns the distinct interaction patterns seen so far.
func (s *Store) Patterns(ctx context.Context, agentID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("agent id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT DISTINCT pattern FROM interactions WHERE agent_id = ? AND pattern != '' ORDER BY pattern",
		agentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []string
	for rows.Next() {
		var pattern string
		if err := rows.Scan(&pattern); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		patterns = append(patterns, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patterns: %w", err)
	}
	return patterns, nil
}

// RecordInsight persists one generated learning insight.
func (s *Store) RecordInsight(ctx context.Context, record storage.InsightRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	if strings.TrimSpace(record.Insight) == "" {
		return fmt.Errorf("insight is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO insights (
	agent_id,
	insight,
	at_interaction,
	created_at
) VALUES (?, ?, ?, ?)
`,
		record.AgentID,
		record.Insight,
		record.AtInteraction,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record insight: %w", err)
	}
	return nil
}

// CountInsights returns the number of generated insights.
func (s *Store) CountInsights(ctx context.Context, agentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return 0, fmt.Errorf("agent id is required")
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM insights WHERE agent_id = ?",
		agentID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count insights: %w", err)
	}
	return count, nil
}
