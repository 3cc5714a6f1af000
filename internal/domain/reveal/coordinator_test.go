package reveal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rocketvote/internal/domain/poll"
	"rocketvote/internal/platform/keyval"
)

type fakeScheduler struct {
	mu    sync.Mutex
	tasks map[string]time.Time
	fail  error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{tasks: make(map[string]time.Time)}
}

func (s *fakeScheduler) ScheduleDeletion(ctx context.Context, creationID string, notBefore time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.tasks[creationID] = notBefore
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	revealed []string
}

func (n *fakeNotifier) PollRevealed(pollID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revealed = append(n.revealed, pollID)
}

func setup(t *testing.T) (*Coordinator, *poll.Repository, *fakeScheduler, *fakeNotifier, string, string) {
	t.Helper()
	store := keyval.NewMemory()
	repo := poll.NewRepository(store, nil)
	sched := newFakeScheduler()
	notifier := &fakeNotifier{}
	coordinator := NewCoordinator(repo, sched, notifier, 10*24*time.Hour, nil)

	creationID, pollID, err := repo.Create(context.Background(), []poll.Question{
		{Description: "Size?", Options: []string{"1", "2"}},
	}, false)
	if err != nil {
		t.Fatalf("create poll: %v", err)
	}
	return coordinator, repo, sched, notifier, creationID, pollID
}

func TestRevealFlipsFlagSchedulesAndNotifies(t *testing.T) {
	coordinator, repo, sched, notifier, creationID, pollID := setup(t)
	ctx := context.Background()

	before := time.Now()
	gotPollID, err := coordinator.Reveal(ctx, creationID)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if gotPollID != pollID {
		t.Fatalf("reveal resolved %q, want %q", gotPollID, pollID)
	}

	p, err := repo.Get(ctx, pollID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !p.Revealed {
		t.Fatalf("revealed flag not set")
	}

	notBefore, ok := sched.tasks[creationID]
	if !ok {
		t.Fatalf("deletion not scheduled")
	}
	wantEarliest := before.Add(10 * 24 * time.Hour)
	if notBefore.Before(wantEarliest.Add(-time.Minute)) || notBefore.After(wantEarliest.Add(time.Minute)) {
		t.Fatalf("deletion scheduled at %v, want about %v", notBefore, wantEarliest)
	}

	if len(notifier.revealed) != 1 || notifier.revealed[0] != pollID {
		t.Fatalf("expected one poll_revealed for %q, got %v", pollID, notifier.revealed)
	}
}

func TestRevealUnknownCreationID(t *testing.T) {
	coordinator, _, sched, notifier, _, _ := setup(t)

	_, err := coordinator.Reveal(context.Background(), "no-such-creation-id")
	if !errors.Is(err, ErrInvalidCreationID) {
		t.Fatalf("expected ErrInvalidCreationID, got %v", err)
	}
	if len(sched.tasks) != 0 {
		t.Fatalf("nothing may be scheduled for an unknown creation id")
	}
	if len(notifier.revealed) != 0 {
		t.Fatalf("nothing may be published for an unknown creation id")
	}
}

func TestRevealAfterDelete(t *testing.T) {
	coordinator, repo, _, _, creationID, _ := setup(t)
	ctx := context.Background()

	if _, err := repo.Delete(ctx, creationID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := coordinator.Reveal(ctx, creationID); !errors.Is(err, ErrInvalidCreationID) {
		t.Fatalf("expected ErrInvalidCreationID after delete, got %v", err)
	}
}

func TestRepeatedRevealRepeatsSideEffects(t *testing.T) {
	// The coordinator itself does not guard against double-reveal; that duty
	// sits at the API boundary. This pins the contract down.
	coordinator, _, sched, notifier, creationID, _ := setup(t)
	ctx := context.Background()

	if _, err := coordinator.Reveal(ctx, creationID); err != nil {
		t.Fatalf("first reveal: %v", err)
	}
	first := sched.tasks[creationID]

	time.Sleep(5 * time.Millisecond)
	if _, err := coordinator.Reveal(ctx, creationID); err != nil {
		t.Fatalf("second reveal: %v", err)
	}
	if !sched.tasks[creationID].After(first) && sched.tasks[creationID] != first {
		t.Fatalf("second reveal should have re-scheduled")
	}
	if len(notifier.revealed) != 2 {
		t.Fatalf("expected publish per reveal call, got %d", len(notifier.revealed))
	}
}

func TestScheduleFailureSurfaces(t *testing.T) {
	coordinator, repo, sched, _, creationID, pollID := setup(t)
	sched.fail = errors.New("queue unavailable")

	_, err := coordinator.Reveal(context.Background(), creationID)
	if err == nil {
		t.Fatalf("expected scheduling failure to surface")
	}

	// The flag was already set; reveal is not rolled back.
	p, err := repo.Get(context.Background(), pollID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !p.Revealed {
		t.Fatalf("revealed flag should remain set")
	}
}
