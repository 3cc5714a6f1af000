package reveal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rocketvote/internal/domain/poll"
)

var ErrInvalidCreationID = errors.New("creation id does not resolve to a poll")

// Scheduler enqueues a durable deletion task to run at or after notBefore.
type Scheduler interface {
	ScheduleDeletion(ctx context.Context, creationID string, notBefore time.Time) error
}

// Notifier fans the reveal out to connected participants.
type Notifier interface {
	PollRevealed(pollID string)
}

// Coordinator drives the one-way OPEN -> REVEALED -> (scheduled) DELETED poll
// lifecycle.
type Coordinator struct {
	repo     *poll.Repository
	sched    Scheduler
	notifier Notifier
	delay    time.Duration
	logger   *slog.Logger
}

func NewCoordinator(repo *poll.Repository, sched Scheduler, notifier Notifier, delay time.Duration, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{repo: repo, sched: sched, notifier: notifier, delay: delay, logger: logger}
}

// Reveal freezes voting, schedules the poll's deletion and notifies
// subscribers. It does not re-check an already-set revealed flag before its
// side effects; callers guard against double-reveal at the API boundary.
func (c *Coordinator) Reveal(ctx context.Context, creationID string) (string, error) {
	pollID, _, err := c.repo.GetByCreationID(ctx, creationID)
	if err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			return "", ErrInvalidCreationID
		}
		return "", err
	}

	if err := c.repo.SetRevealed(ctx, pollID); err != nil {
		return "", err
	}

	if err := c.sched.ScheduleDeletion(ctx, creationID, time.Now().Add(c.delay)); err != nil {
		return "", err
	}

	// Notification is best-effort and must never roll back the reveal.
	if c.notifier != nil {
		c.notifier.PollRevealed(pollID)
	}

	c.logger.Info("poll revealed", "poll_id", pollID, "delete_after", c.delay)
	return pollID, nil
}
