package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// RecordResonance persists one emotional resonance entry.
func (s *Store) RecordResonance(ctx context.Context, record storage.ResonanceRecord) error {
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

	changes := record.Changes
	if changes == nil {
		changes = map[string]float64{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO resonances (
	agent_id,
	stimulus,
	dominant,
	intensity,
	total,
	changes_json,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		record.AgentID,
		record.Stimulus,
		record.Dominant,
		record.Intensity,
		record.Total,
		string(changesJSON),
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record resonance: %w", err)
	}
	return nil
}

// ListResonances lists newest-first resonance entries.
func (s *Store) ListResonances(ctx context.Context, agentID string, limit int) ([]storage.ResonanceRecord, error) {
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
	stimulus,
	dominant,
	intensity,
	total,
	changes_json,
	created_at
FROM resonances
WHERE agent_id = ?
ORDER BY id DESC
LIMIT ?
`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list resonances: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ResonanceRecord, 0, limit)
	for rows.Next() {
		var record storage.ResonanceRecord
		var changes string
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&record.AgentID,
			&record.Stimulus,
			&record.Dominant,
			&record.Intensity,
			&record.Total,
			&changes,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan resonance: %w", err)
		}
		if err := json.Unmarshal([]byte(changes), &record.Changes); err != nil {
			return nil, fmt.Errorf("unmarshal changes: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resonances: %w", err)
	}
	return records, nil
}
