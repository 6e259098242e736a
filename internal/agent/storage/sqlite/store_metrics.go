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

// SaveSnapshot persists one self-improvement metrics snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot storage.MetricsSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(snapshot.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO metric_snapshots (
	agent_id,
	proof_count,
	reflection_quality,
	topics_learned,
	goals_completed,
	emotional_balance,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		snapshot.AgentID,
		snapshot.ProofCount,
		snapshot.ReflectionQuality,
		snapshot.TopicsLearned,
		snapshot.GoalsCompleted,
		snapshot.EmotionalBalance,
		toMillis(snapshot.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent metrics snapshot.
func (s *Store) LatestSnapshot(ctx context.Context, agentID string) (storage.MetricsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return storage.MetricsSnapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MetricsSnapshot{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return storage.MetricsSnapshot{}, fmt.Errorf("agent id is required")
	}

	var snapshot storage.MetricsSnapshot
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT
	id,
	agent_id,
	proof_count,
	reflection_quality,
	topics_learned,
	goals_completed,
	emotional_balance,
	created_at
FROM metric_snapshots
WHERE agent_id = ?
ORDER BY id DESC
LIMIT 1
`, agentID).Scan(
		&snapshot.ID,
		&snapshot.AgentID,
		&snapshot.ProofCount,
		&snapshot.ReflectionQuality,
		&snapshot.TopicsLearned,
		&snapshot.GoalsCompleted,
		&snapshot.EmotionalBalance,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MetricsSnapshot{}, domain.NewError(domain.CodeNotFound, "no snapshots for agent %s", agentID)
		}
		return storage.MetricsSnapshot{}, fmt.Errorf("latest snapshot: %w", err)
	}
	snapshot.CreatedAt = fromMillis(createdAt)
	return snapshot, nil
}

// CountSnapshots returns the number of stored snapshots.
func (s *Store) CountSnapshots(ctx context.Context, agentID string) (int, error) {
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
		"SELECT COUNT(*) FROM metric_snapshots WHERE agent_id = ?",
		agentID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return count, nil
}
