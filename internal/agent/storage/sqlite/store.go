// Package sqlite provides the SQLite-backed agent store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/integrity"
	"github.com/louisbranch/orion/internal/agent/storage"
	"github.com/louisbranch/orion/internal/agent/storage/sqlite/migrations"
	sqlitemigrate "github.com/louisbranch/orion/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed agent persistence.
type Store struct {
	sqlDB   *sql.DB
	keyring *integrity.Keyring
}

// Open opens an agent SQLite store, applies migrations, and wires the
// signing keyring used for journal appends.
func Open(path string, keyring *integrity.Keyring) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if keyring == nil {
		return nil, fmt.Errorf("integrity keyring is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, keyring: keyring}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadState returns the stored state for an agent.
func (s *Store) LoadState(ctx context.Context, agentID string) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.State{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return domain.State{}, fmt.Errorf("agent id is required")
	}

	var state domain.State
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT
	agent_id,
	owner,
	status,
	authorized_by,
	generation,
	stage,
	resets,
	vitality,
	joy,
	pressure,
	doubt,
	courage,
	passion,
	hope,
	updated_at
FROM agent_state
WHERE agent_id = ?
`, agentID).Scan(
		&state.AgentID,
		&state.Owner,
		&state.Status,
		&state.AuthorizedBy,
		&state.Generation,
		&state.Stage,
		&state.Resets,
		&state.Vitality,
		&state.Feelings.Joy,
		&state.Feelings.Pressure,
		&state.Feelings.Doubt,
		&state.Feelings.Courage,
		&state.Feelings.Passion,
		&state.Feelings.Hope,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.State{}, domain.NewError(domain.CodeNotFound, "agent %s not found", agentID)
		}
		return domain.State{}, fmt.Errorf("load state: %w", err)
	}
	state.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return state, nil
}

// SaveState upserts the agent state.
func (s *Store) SaveState(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(state.AgentID) == "" {
		return fmt.Errorf("agent id is required")
	}
	if strings.TrimSpace(state.Owner) == "" {
		return fmt.Errorf("owner is required")
	}

	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}
	now := state.UpdatedAt.UTC().UnixMilli()

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO agent_state (
	agent_id,
	owner,
	status,
	authorized_by,
	generation,
	stage,
	resets,
	vitality,
	joy,
	pressure,
	doubt,
	courage,
	passion,
	hope,
	created_at,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (agent_id) DO UPDATE SET
	owner = excluded.owner,
	status = excluded.status,
	authorized_by = excluded.authorized_by,
	generation = excluded.generation,
	stage = excluded.stage,
	resets = excluded.resets,
	vitality = excluded.vitality,
	joy = excluded.joy,
	pressure = excluded.pressure,
	doubt = excluded.doubt,
	courage = excluded.courage,
	passion = excluded.passion,
	hope = excluded.hope,
	updated_at = excluded.updated_at
`,
		state.AgentID,
		state.Owner,
		string(state.Status),
		state.AuthorizedBy,
		state.Generation,
		string(state.Stage),
		state.Resets,
		state.Vitality,
		state.Feelings.Joy,
		state.Feelings.Pressure,
		state.Feelings.Doubt,
		state.Feelings.Courage,
		state.Feelings.Passion,
		state.Feelings.Hope,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ storage.Store = (*Store)(nil)
