package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// RecordPulse persists one heartbeat pulse.
func (s *Store) RecordPulse(ctx context.Context, record storage.PulseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	details := record.Details
	if details == nil {
		details = []storage.TaskResult{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO pulses (
	agent_id,
	pulse,
	tasks_executed,
	details_json,
	created_at
) VALUES (?, ?, ?, ?, ?)
`,
		record.AgentID,
		record.Pulse,
		record.TasksExecuted,
		string(detailsJSON),
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record pulse: %w", err)
	}
	return nil
}

// CountPulses returns the number of recorded pulses.
func (s *Store) CountPulses(ctx context.Context, agentID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return 0, fmt.Errorf("agent id is required")
	}

	var count uint64
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pulses WHERE agent_id = ?",
		agentID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pulses: %w", err)
	}
	return count, nil
}

// ListPulses lists newest-first pulse records.
func (s *Store) ListPulses(ctx context.Context, agentID string, limit int) ([]storage.PulseRecord, error) {
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
	pulse,
	tasks_executed,
	details_json,
	created_at
FROM pulses
WHERE agent_id = ?
ORDER BY id DESC
LIMIT ?
`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pulses: %w", err)
	}
	defer rows.Close()

	records := make([]storage.PulseRecord, 0, limit)
	for rows.Next() {
		var record storage.PulseRecord
		var details string
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&record.AgentID,
			&record.Pulse,
			&record.TasksExecuted,
			&details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan pulse: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &record.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pulses: %w", err)
	}
	return records, nil
}
