package worker

import (
	"context"
	"log"
	"time"

	"rocketvote/internal/metrics"
	"rocketvote/internal/platform/keyval"
	"rocketvote/internal/retry"
)

// queueKey holds every pending deletion as a sorted-set member scored by its
// not-before unix time, so the queue survives restarts with the rest of the
// poll state.
const queueKey = "scheduled_deletions"

// PollDeleter removes a poll and all derived keys by creation id.
type PollDeleter interface {
	Delete(ctx context.Context, creationID string) (bool, error)
}

// DeletionQueue is the durable scheduled-task queue behind the reveal
// coordinator's Scheduler capability.
type DeletionQueue struct {
	store keyval.Store
}

func NewDeletionQueue(store keyval.Store) *DeletionQueue {
	return &DeletionQueue{store: store}
}

func (q *DeletionQueue) ScheduleDeletion(ctx context.Context, creationID string, notBefore time.Time) error {
	return q.store.SortedSetAdd(ctx, queueKey, creationID, float64(notBefore.Unix()))
}

func (q *DeletionQueue) due(ctx context.Context, now time.Time) ([]string, error) {
	return q.store.SortedSetRangeByScoreMax(ctx, queueKey, float64(now.Unix()))
}

func (q *DeletionQueue) remove(ctx context.Context, creationID string) error {
	return q.store.SortedSetRemove(ctx, queueKey, creationID)
}

// DeletionWorker sweeps the queue and purges polls whose delay has elapsed.
// Deleting an already-gone poll is a no-op, so a task observed by two sweeps
// stays harmless.
type DeletionWorker struct {
	queue    *DeletionQueue
	repo     PollDeleter
	interval time.Duration
}

func NewDeletionWorker(queue *DeletionQueue, repo PollDeleter, interval time.Duration) *DeletionWorker {
	return &DeletionWorker{queue: queue, repo: repo, interval: interval}
}

func (w *DeletionWorker) Run(ctx context.Context) {
	log.Println("deletion worker started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("deletion worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *DeletionWorker) sweep(ctx context.Context) {
	var due []string
	err := retry.DoWithRetry(ctx, 3, time.Second, func() error {
		var rangeErr error
		due, rangeErr = w.queue.due(ctx, time.Now())
		return rangeErr
	})
	if err != nil {
		log.Printf("deletion sweep failed: %v", err)
		return
	}

	for _, creationID := range due {
		deleted, err := w.repo.Delete(ctx, creationID)
		if err != nil {
			// Leave the task in the queue; the next sweep retries it.
			log.Printf("delete poll %s failed: %v", creationID, err)
			continue
		}
		if err := w.queue.remove(ctx, creationID); err != nil {
			log.Printf("dequeue %s failed: %v", creationID, err)
			continue
		}
		if deleted {
			metrics.IncPollDeleted()
			log.Printf("deleted poll for creation id %s", creationID)
		}
	}
}
