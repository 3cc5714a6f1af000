package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rocketvote/internal/platform/keyval"
)

type fakeDeleter struct {
	mu      sync.Mutex
	deleted []string
	missing map[string]bool
	fail    map[string]error
}

func newFakeDeleter() *fakeDeleter {
	return &fakeDeleter{missing: make(map[string]bool), fail: make(map[string]error)}
}

func (d *fakeDeleter) Delete(ctx context.Context, creationID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail[creationID]; err != nil {
		return false, err
	}
	d.deleted = append(d.deleted, creationID)
	return !d.missing[creationID], nil
}

func TestSweepDeletesDueTasksOnly(t *testing.T) {
	store := keyval.NewMemory()
	queue := NewDeletionQueue(store)
	deleter := newFakeDeleter()
	w := NewDeletionWorker(queue, deleter, time.Minute)
	ctx := context.Background()

	now := time.Now()
	if err := queue.ScheduleDeletion(ctx, "due-1", now.Add(-time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := queue.ScheduleDeletion(ctx, "due-2", now.Add(-time.Minute)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := queue.ScheduleDeletion(ctx, "future", now.Add(time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	w.sweep(ctx)

	if len(deleter.deleted) != 2 {
		t.Fatalf("expected 2 deletions, got %v", deleter.deleted)
	}
	for _, id := range deleter.deleted {
		if id == "future" {
			t.Fatalf("future task deleted early")
		}
	}

	remaining, err := queue.due(ctx, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(remaining) != 1 || remaining[0] != "future" {
		t.Fatalf("expected only the future task to remain, got %v", remaining)
	}
}

func TestSweepIsReentrant(t *testing.T) {
	store := keyval.NewMemory()
	queue := NewDeletionQueue(store)
	deleter := newFakeDeleter()
	deleter.missing["gone"] = true
	w := NewDeletionWorker(queue, deleter, time.Minute)
	ctx := context.Background()

	// The poll is already deleted by hand; the task must still drain cleanly.
	if err := queue.ScheduleDeletion(ctx, "gone", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	w.sweep(ctx)
	w.sweep(ctx)

	remaining, err := queue.due(ctx, time.Now())
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("drained task reappeared: %v", remaining)
	}
}

func TestSweepKeepsFailedTasks(t *testing.T) {
	store := keyval.NewMemory()
	queue := NewDeletionQueue(store)
	deleter := newFakeDeleter()
	deleter.fail["flaky"] = errors.New("store hiccup")
	w := NewDeletionWorker(queue, deleter, time.Minute)
	ctx := context.Background()

	if err := queue.ScheduleDeletion(ctx, "flaky", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	w.sweep(ctx)

	remaining, err := queue.due(ctx, time.Now())
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(remaining) != 1 || remaining[0] != "flaky" {
		t.Fatalf("failed task must stay queued for the next sweep, got %v", remaining)
	}

	// Once the store recovers the task drains.
	deleter.fail = map[string]error{}
	w.sweep(ctx)
	remaining, err = queue.due(ctx, time.Now())
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("recovered task should be gone, got %v", remaining)
	}
}

func TestRescheduleMovesNotBefore(t *testing.T) {
	store := keyval.NewMemory()
	queue := NewDeletionQueue(store)
	ctx := context.Background()

	if err := queue.ScheduleDeletion(ctx, "cid", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := queue.ScheduleDeletion(ctx, "cid", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	due, err := queue.due(ctx, time.Now())
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("rescheduled task is still due: %v", due)
	}
}
