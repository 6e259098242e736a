package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// PutGoal inserts a new goal.
func (s *Store) PutGoal(ctx context.Context, record storage.GoalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.GoalID) == "" {
		return fmt.Errorf("goal id is required")
	}
	if strings.TrimSpace(record.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	if strings.TrimSpace(record.Goal) == "" {
		return fmt.Errorf("goal text is required")
	}
	if record.Status == "" {
		record.Status = storage.GoalStatusActive
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO goals (
	goal_id,
	agent_id,
	goal,
	priority,
	progress,
	status,
	created_at,
	completed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		record.GoalID,
		record.AgentID,
		record.Goal,
		record.Priority,
		record.Progress,
		record.Status,
		toMillis(record.CreatedAt),
		completedAtMillis(record.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("put goal: %w", err)
	}
	return nil
}

// UpdateGoal updates progress and status of an existing goal.
func (s *Store) UpdateGoal(ctx context.Context, record storage.GoalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.GoalID) == "" {
		return fmt.Errorf("goal id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
UPDATE goals
SET progress = ?, status = ?, completed_at = ?
WHERE goal_id = ?
`,
		record.Progress,
		record.Status,
		completedAtMillis(record.CompletedAt),
		record.GoalID,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// ListGoals lists goals for an agent, optionally filtered by status.
func (s *Store) ListGoals(ctx context.Context, agentID, status string) ([]storage.GoalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("agent id is required")
	}

	query := `
SELECT
	goal_id,
	agent_id,
	goal,
	priority,
	progress,
	status,
	created_at,
	completed_at
FROM goals
WHERE agent_id = ?`
	args := []any{agentID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY priority DESC, created_at ASC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var records []storage.GoalRecord
	for rows.Next() {
		var record storage.GoalRecord
		var createdAt, completedAt int64
		if err := rows.Scan(
			&record.GoalID,
			&record.AgentID,
			&record.Goal,
			&record.Priority,
			&record.Progress,
			&record.Status,
			&createdAt,
			&completedAt,
		); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		if completedAt > 0 {
			record.CompletedAt = fromMillis(completedAt)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return records, nil
}

// CountGoals counts goals for an agent, optionally filtered by status.
func (s *Store) CountGoals(ctx context.Context, agentID, status string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return 0, fmt.Errorf("agent id is required")
	}

	query := "SELECT COUNT(*) FROM goals WHERE agent_id = ?"
	args := []any{agentID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return count, nil
}

func completedAtMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return toMillis(t)
}
