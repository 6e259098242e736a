package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// RecordReflection persists one self-reflection.
func (s *Store) RecordReflection(ctx context.Context, record storage.ReflectionRecord) (storage.ReflectionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ReflectionRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ReflectionRecord{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.AgentID) == "" {
		return storage.ReflectionRecord{}, fmt.Errorf("agent id is required")
	}
	if strings.TrimSpace(record.Decision) == "" {
		return storage.ReflectionRecord{}, fmt.Errorf("decision is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	improvements, err := json.Marshal(record.Improvements)
	if err != nil {
		return storage.ReflectionRecord{}, fmt.Errorf("marshal improvements: %w", err)
	}

	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO reflections (
	agent_id,
	decision,
	reasoning,
	quality,
	improvements_json,
	created_at
) VALUES (?, ?, ?, ?, ?, ?)
`,
		record.AgentID,
		record.Decision,
		record.Reasoning,
		record.Quality,
		string(improvements),
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return storage.ReflectionRecord{}, fmt.Errorf("record reflection: %w", err)
	}
	record.ID, err = result.LastInsertId()
	if err != nil {
		return storage.ReflectionRecord{}, fmt.Errorf("reflection id: %w", err)
	}
	return record, nil
}

// ListReflections lists newest-first reflections.
func (s *Store) ListReflections(ctx context.Context, agentID string, limit int) ([]storage.ReflectionRecord, error) {
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
	decision,
	reasoning,
	quality,
	improvements_json,
	created_at
FROM reflections
WHERE agent_id = ?
ORDER BY id DESC
LIMIT ?
`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ReflectionRecord, 0, limit)
	for rows.Next() {
		var record storage.ReflectionRecord
		var improvements string
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&record.AgentID,
			&record.Decision,
			&record.Reasoning,
			&record.Quality,
			&improvements,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan reflection: %w", err)
		}
		if err := json.Unmarshal([]byte(improvements), &record.Improvements); err != nil {
			return nil, fmt.Errorf("unmarshal improvements: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reflections: %w", err)
	}
	return records, nil
}

// ReflectionStats returns reflection count and mean quality.
func (s *Store) ReflectionStats(ctx context.Context, agentID string) (int, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return 0, 0, fmt.Errorf("agent id is required")
	}

	var count int
	var avg sql.NullFloat64
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*), AVG(quality) FROM reflections WHERE agent_id = ?",
		agentID,
	).Scan(&count, &avg)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("reflection stats: %w", err)
	}
	if !avg.Valid {
		return count, 0, nil
	}
	return count, avg.Float64, nil
}
