package notify

import (
	"log/slog"
	"sync"
	"time"

	"rocketvote/internal/metrics"
)

const subscriberBuffer = 16

type EventType string

const (
	EventPollRevealed EventType = "poll_revealed"
	EventVoteCast     EventType = "vote_cast"
)

// Event is what subscribers of a poll topic receive.
type Event struct {
	Type      EventType `json:"type"`
	PollID    string    `json:"poll_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Topic names the per-poll notification channel.
func Topic(pollID string) string {
	return "poll_" + pollID
}

// Bus is an in-process topic registry with at-most-once delivery. A subscriber
// whose channel is full misses the event; reveal state stays retrievable via a
// pull query, so missed events are not replayed.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan Event
	lastID int
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[string]map[int]chan Event),
		logger: logger,
	}
}

// Subscribe registers a new subscriber on the topic and returns its id along
// with the delivery channel. The id is required to unsubscribe.
func (b *Bus) Subscribe(topic string) (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastID++
	id := b.lastID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	ch := make(chan Event, subscriberBuffer)
	b.subs[topic][id] = ch
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are
// ignored.
func (b *Bus) Unsubscribe(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subs[topic]
	if !ok {
		return
	}
	ch, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(b.subs, topic)
	}
	close(ch)
}

// Publish delivers the event to every current subscriber of the topic without
// blocking the caller.
func (b *Bus) Publish(topic string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs[topic] {
		select {
		case ch <- ev:
			metrics.IncEventPublished(string(ev.Type))
		default:
			metrics.IncEventDropped(string(ev.Type))
			b.logger.Warn("dropping event for slow subscriber",
				"topic", topic, "subscriber", id, "type", ev.Type)
		}
	}
}

// VoteCast publishes a vote_cast event on the poll's topic.
func (b *Bus) VoteCast(pollID string) {
	b.Publish(Topic(pollID), Event{
		Type:      EventVoteCast,
		PollID:    pollID,
		Timestamp: time.Now(),
	})
}

// PollRevealed publishes a poll_revealed event on the poll's topic.
func (b *Bus) PollRevealed(pollID string) {
	b.Publish(Topic(pollID), Event{
		Type:      EventPollRevealed,
		PollID:    pollID,
		Timestamp: time.Now(),
	})
}
