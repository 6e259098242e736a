package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/storage"
)

// RecordSynthesis persists one autonomous synthesis result.
func (s *Store) RecordSynthesis(ctx context.Context, record storage.SynthesisRecord) error {
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

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO syntheses (
	agent_id,
	gap,
	question,
	insight,
	meta_insight,
	resonance,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		record.AgentID,
		record.Gap,
		record.Question,
		record.Insight,
		record.MetaInsight,
		record.Resonance,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record synthesis: %w", err)
	}
	return nil
}

// CountSyntheses returns the number of stored syntheses.
func (s *Store) CountSyntheses(ctx context.Context, agentID string) (int, error) {
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
		"SELECT COUNT(*) FROM syntheses WHERE agent_id = ?",
		agentID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count syntheses: %w", err)
	}
	return count, nil
}

// LatestSynthesis returns the most recent synthesis result.
func (s *Store) LatestSynthesis(ctx context.Context, agentID string) (storage.SynthesisRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SynthesisRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SynthesisRecord{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return storage.SynthesisRecord{}, fmt.Errorf("agent id is required")
	}

	var record storage.SynthesisRecord
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT
	id,
	agent_id,
	gap,
	question,
	insight,
	meta_insight,
	resonance,
	created_at
FROM syntheses
WHERE agent_id = ?
ORDER BY id DESC
LIMIT 1
`, agentID).Scan(
		&record.ID,
		&record.AgentID,
		&record.Gap,
		&record.Question,
		&record.Insight,
		&record.MetaInsight,
		&record.Resonance,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.SynthesisRecord{}, domain.NewError(domain.CodeNotFound, "no syntheses for agent %s", agentID)
		}
		return storage.SynthesisRecord{}, fmt.Errorf("latest synthesis: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}
