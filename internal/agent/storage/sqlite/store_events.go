package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/event"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// EventStore methods (tamper-evident proof journal)

// AppendEvent atomically appends an event and returns it with sequence,
// hashes, and signature set.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if s.keyring == nil {
		return event.Event{}, fmt.Errorf("event integrity keyring is required")
	}
	if strings.TrimSpace(evt.AgentID) == "" {
		return event.Event{}, fmt.Errorf("agent id is required")
	}
	if !evt.Type.IsValid() {
		return event.Event{}, fmt.Errorf("unknown event type %q", evt.Type)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_seq (agent_id, next_seq) VALUES (?, 1)",
		evt.AgentID,
	); err != nil {
		return event.Event{}, fmt.Errorf("init event seq: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx,
		"SELECT next_seq FROM event_seq WHERE agent_id = ?",
		evt.AgentID,
	).Scan(&seq); err != nil {
		return event.Event{}, fmt.Errorf("get event seq: %w", err)
	}
	evt.Seq = uint64(seq)

	if _, err := tx.ExecContext(ctx,
		"UPDATE event_seq SET next_seq = next_seq + 1 WHERE agent_id = ?",
		evt.AgentID,
	); err != nil {
		return event.Event{}, fmt.Errorf("increment event seq: %w", err)
	}

	hash, err := event.EventHash(evt)
	if err != nil {
		return event.Event{}, fmt.Errorf("compute event hash: %w", err)
	}
	evt.Hash = hash

	prevHash := ""
	if evt.Seq > 1 {
		if err := tx.QueryRowContext(ctx,
			"SELECT chain_hash FROM events WHERE agent_id = ? AND seq = ?",
			evt.AgentID, seq-1,
		).Scan(&prevHash); err != nil {
			return event.Event{}, fmt.Errorf("load previous event: %w", err)
		}
	}

	chainHash, err := event.ChainHash(evt, prevHash)
	if err != nil {
		return event.Event{}, fmt.Errorf("compute chain hash: %w", err)
	}

	signature, keyID, err := s.keyring.SignChainHash(evt.AgentID, chainHash)
	if err != nil {
		return event.Event{}, fmt.Errorf("sign chain hash: %w", err)
	}

	evt.PrevHash = prevHash
	evt.ChainHash = chainHash
	evt.Signature = signature
	evt.SignatureKeyID = keyID

	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO events (
	agent_id,
	seq,
	event_hash,
	prev_event_hash,
	chain_hash,
	signature_key_id,
	event_signature,
	timestamp,
	event_type,
	actor_type,
	actor_id,
	payload_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		evt.AgentID,
		seq,
		evt.Hash,
		prevHash,
		chainHash,
		keyID,
		signature,
		toMillis(evt.Timestamp),
		string(evt.Type),
		string(evt.ActorType),
		evt.ActorID,
		payload,
	); err != nil {
		if isConstraintError(err) {
			stored, lookupErr := s.getEventByHash(ctx, evt.Hash)
			if lookupErr == nil {
				return stored, nil
			}
		}
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit: %w", err)
	}

	return evt, nil
}

// ListEvents returns newest-first journal entries.
func (s *Store) ListEvents(ctx context.Context, agentID string, limit int) ([]event.Event, error) {
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

	rows, err := s.sqlDB.QueryContext(ctx,
		eventSelectColumns+" FROM events WHERE agent_id = ? ORDER BY seq DESC LIMIT ?",
		agentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, limit)
}

// ListEventsAscending returns journal entries from fromSeq upward.
func (s *Store) ListEventsAscending(ctx context.Context, agentID string, fromSeq uint64, limit int) ([]event.Event, error) {
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

	rows, err := s.sqlDB.QueryContext(ctx,
		eventSelectColumns+" FROM events WHERE agent_id = ? AND seq >= ? ORDER BY seq ASC LIMIT ?",
		agentID, int64(fromSeq), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, limit)
}

// CountEvents returns the journal length.
func (s *Store) CountEvents(ctx context.Context, agentID string) (uint64, error) {
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
		"SELECT COUNT(*) FROM events WHERE agent_id = ?",
		agentID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// LatestEvent returns the most recent journal entry.
func (s *Store) LatestEvent(ctx context.Context, agentID string) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(agentID) == "" {
		return event.Event{}, fmt.Errorf("agent id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		eventSelectColumns+" FROM events WHERE agent_id = ? ORDER BY seq DESC LIMIT 1",
		agentID,
	)
	evt, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, domain.NewError(domain.CodeNotFound, "journal for agent %s is empty", agentID)
		}
		return event.Event{}, fmt.Errorf("latest event: %w", err)
	}
	return evt, nil
}

func (s *Store) getEventByHash(ctx context.Context, hash string) (event.Event, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		eventSelectColumns+" FROM events WHERE event_hash = ?",
		hash,
	)
	return scanEvent(row)
}

const eventSelectColumns = `
SELECT
	agent_id,
	seq,
	event_hash,
	prev_event_hash,
	chain_hash,
	signature_key_id,
	event_signature,
	timestamp,
	event_type,
	actor_type,
	actor_id,
	payload_json`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var evt event.Event
	var seq int64
	var timestamp int64
	var eventType string
	var actorType string
	if err := row.Scan(
		&evt.AgentID,
		&seq,
		&evt.Hash,
		&evt.PrevHash,
		&evt.ChainHash,
		&evt.SignatureKeyID,
		&evt.Signature,
		&timestamp,
		&eventType,
		&actorType,
		&evt.ActorID,
		&evt.PayloadJSON,
	); err != nil {
		return event.Event{}, err
	}
	evt.Seq = uint64(seq)
	evt.Timestamp = fromMillis(timestamp)
	evt.Type = event.Type(eventType)
	evt.ActorType = event.ActorType(actorType)
	return evt, nil
}

func scanEvents(rows *sql.Rows, limit int) ([]event.Event, error) {
	events := make([]event.Event, 0, limit)
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
