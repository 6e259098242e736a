// Package heartbeat schedules the agent's autonomous background tasks and
// records a pulse for every beat.
package heartbeat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

// Store persists pulse records.
type Store interface {
	RecordPulse(ctx context.Context, record storage.PulseRecord) error
	CountPulses(ctx context.Context, agentID string) (uint64, error)
}

// TaskFunc is the body of an autonomous task.
type TaskFunc func(ctx context.Context) error

// Task is a periodic autonomous task. Higher priority runs first within a
// pulse.
type Task struct {
	Name     string
	Interval time.Duration
	Priority int
	Run      TaskFunc

	lastRun time.Time
	runs    uint64
	errors  uint64
}

func (t *Task) due(now time.Time) bool {
	if t.lastRun.IsZero() {
		return true
	}
	return now.Sub(t.lastRun) >= t.Interval
}

// TaskStats reports one task's counters.
type TaskStats struct {
	Name     string
	Interval time.Duration
	Priority int
	Runs     uint64
	Errors   uint64
}

// Heart beats on a fixed interval and executes due tasks by priority.
type Heart struct {
	mu         sync.Mutex
	store      Store
	agentID    string
	tasks      []*Task
	pulseCount uint64
	resumed    bool
	now        func() time.Time
}

// New returns a heart for one agent. Call Resume before the first pulse to
// continue the persisted pulse count.
func New(store Store, agentID string) *Heart {
	return &Heart{store: store, agentID: agentID, now: time.Now}
}

// Resume loads the persisted pulse count so numbering survives restarts.
func (h *Heart) Resume(ctx context.Context) error {
	count, err := h.store.CountPulses(ctx, h.agentID)
	if err != nil {
		return fmt.Errorf("count pulses: %w", err)
	}
	h.mu.Lock()
	h.pulseCount = count
	h.resumed = true
	h.mu.Unlock()
	return nil
}

// Register adds a task. Tasks are kept sorted by priority, highest first.
func (h *Heart) Register(task *Task) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = append(h.tasks, task)
	sort.SliceStable(h.tasks, func(i, j int) bool {
		return h.tasks[i].Priority > h.tasks[j].Priority
	})
}

// Pulse runs one beat: every due task executes in priority order, failures
// are counted but never abort the beat, and the outcome is persisted.
func (h *Heart) Pulse(ctx context.Context) (storage.PulseRecord, error) {
	h.mu.Lock()
	h.pulseCount++
	pulse := h.pulseCount
	now := h.now().UTC()

	var due []*Task
	for _, task := range h.tasks {
		if task.due(now) {
			due = append(due, task)
		}
	}
	h.mu.Unlock()

	details := make([]storage.TaskResult, 0, len(due))
	for _, task := range due {
		result := storage.TaskResult{Task: task.Name, Success: true}
		if err := task.Run(ctx); err != nil {
			result.Success = false
			result.Error = err.Error()
		}
		h.mu.Lock()
		task.lastRun = now
		task.runs++
		if !result.Success {
			task.errors++
		}
		h.mu.Unlock()
		details = append(details, result)
	}

	record := storage.PulseRecord{
		AgentID:       h.agentID,
		Pulse:         pulse,
		TasksExecuted: len(details),
		Details:       details,
	}
	if err := h.store.RecordPulse(ctx, record); err != nil {
		return storage.PulseRecord{}, fmt.Errorf("record pulse: %w", err)
	}
	return record, nil
}

// PulseCount returns the number of pulses so far.
func (h *Heart) PulseCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pulseCount
}

// Stats reports the counters of all registered tasks in priority order.
func (h *Heart) Stats() []TaskStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	stats := make([]TaskStats, 0, len(h.tasks))
	for _, task := range h.tasks {
		stats = append(stats, TaskStats{
			Name:     task.Name,
			Interval: task.Interval,
			Priority: task.Priority,
			Runs:     task.runs,
			Errors:   task.errors,
		})
	}
	return stats
}

// Run beats immediately and then on every tick until the context ends.
// Task failures are counted without stopping the loop; Run returns only
// when the context is cancelled or a pulse cannot be persisted.
func (h *Heart) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %v", interval)
	}
	if !h.resumed {
		if err := h.Resume(ctx); err != nil {
			return err
		}
	}
	if _, err := h.Pulse(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := h.Pulse(ctx); err != nil {
				return err
			}
		}
	}
}
