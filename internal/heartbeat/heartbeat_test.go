package heartbeat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/orion/internal/agent/storage"
)

type fakeStore struct {
	pulses []storage.PulseRecord
}

func (f *fakeStore) RecordPulse(_ context.Context, record storage.PulseRecord) error {
	f.pulses = append(f.pulses, record)
	return nil
}

func (f *fakeStore) CountPulses(_ context.Context, _ string) (uint64, error) {
	return uint64(len(f.pulses)), nil
}

func TestPulseRunsDueTasksByPriority(t *testing.T) {
	store := &fakeStore{}
	heart := New(store, "agent-1")

	var order []string
	heart.Register(&Task{Name: "low", Interval: time.Hour, Priority: 1, Run: func(context.Context) error {
		order = append(order, "low")
		return nil
	}})
	heart.Register(&Task{Name: "high", Interval: time.Hour, Priority: 10, Run: func(context.Context) error {
		order = append(order, "high")
		return nil
	}})

	record, err := heart.Pulse(context.Background())
	if err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	if record.Pulse != 1 {
		t.Fatalf("pulse number = %d, want 1", record.Pulse)
	}
	if record.TasksExecuted != 2 {
		t.Fatalf("tasks executed = %d, want 2", record.TasksExecuted)
	}
	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Fatalf("execution order = %v, want [high low]", order)
	}
	if len(store.pulses) != 1 {
		t.Fatalf("pulses recorded = %d, want 1", len(store.pulses))
	}
}

func TestPulseSkipsTasksNotYetDue(t *testing.T) {
	heart := New(&fakeStore{}, "agent-1")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	heart.now = func() time.Time { return now }

	runs := 0
	heart.Register(&Task{Name: "hourly", Interval: time.Hour, Priority: 5, Run: func(context.Context) error {
		runs++
		return nil
	}})

	ctx := context.Background()
	if _, err := heart.Pulse(ctx); err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := heart.Pulse(ctx); err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	if runs != 1 {
		t.Fatalf("runs after 30m = %d, want 1", runs)
	}
	now = now.Add(31 * time.Minute)
	if _, err := heart.Pulse(ctx); err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	if runs != 2 {
		t.Fatalf("runs after 61m = %d, want 2", runs)
	}
}

func TestPulseCountsFailuresWithoutAborting(t *testing.T) {
	heart := New(&fakeStore{}, "agent-1")

	heart.Register(&Task{Name: "broken", Interval: time.Minute, Priority: 10, Run: func(context.Context) error {
		return errors.New("subsystem offline")
	}})
	ran := false
	heart.Register(&Task{Name: "healthy", Interval: time.Minute, Priority: 1, Run: func(context.Context) error {
		ran = true
		return nil
	}})

	record, err := heart.Pulse(context.Background())
	if err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	if !ran {
		t.Fatal("healthy task did not run after broken task failed")
	}
	if record.Details[0].Success || record.Details[0].Error != "subsystem offline" {
		t.Fatalf("broken task detail = %+v", record.Details[0])
	}

	stats := heart.Stats()
	if stats[0].Name != "broken" || stats[0].Errors != 1 || stats[0].Runs != 1 {
		t.Fatalf("broken stats = %+v", stats[0])
	}
	if stats[1].Name != "healthy" || stats[1].Errors != 0 {
		t.Fatalf("healthy stats = %+v", stats[1])
	}
}

func TestResumeContinuesPulseNumbering(t *testing.T) {
	store := &fakeStore{pulses: make([]storage.PulseRecord, 7)}
	heart := New(store, "agent-1")

	ctx := context.Background()
	if err := heart.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	record, err := heart.Pulse(ctx)
	if err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	if record.Pulse != 8 {
		t.Fatalf("pulse number = %d, want 8", record.Pulse)
	}
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	heart := New(&fakeStore{}, "agent-1")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- heart.Run(ctx, 10*time.Millisecond) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if heart.PulseCount() == 0 {
		t.Fatal("no pulses recorded before cancel")
	}
}
