package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// RecordDecision persists one scored decision.
func (s *Store) RecordDecision(ctx context.Context, record storage.DecisionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	if strings.TrimSpace(record.Selected) == "" {
		return fmt.Errorf("selected option is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	options := record.Options
	if len(options) == 0 {
		options = []byte("[]")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO decisions (
	agent_id,
	context,
	selected,
	score,
	options_json,
	created_at
) VALUES (?, ?, ?, ?, ?, ?)
`,
		record.AgentID,
		record.Context,
		record.Selected,
		record.Score,
		options,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// ListDecisions lists newest-first decision records.
func (s *Store) ListDecisions(ctx context.Context, agentID string, limit int) ([]storage.DecisionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	agent_id,
	context,
	selected,
	score,
	options_json,
	created_at
FROM decisions
WHERE agent_id = ?
ORDER BY id DESC
LIMIT ?
`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	records := make([]storage.DecisionRecord, 0, limit)
	for rows.Next() {
		var record storage.DecisionRecord
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&record.AgentID,
			&record.Context,
			&record.Selected,
			&record.Score,
			&record.Options,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return records, nil
}
