package poll

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"rocketvote/internal/platform/ident"
	"rocketvote/internal/platform/keyval"
)

// Repository persists polls and the creation-id mapping on the shared store.
type Repository struct {
	store  keyval.Store
	logger *slog.Logger
}

func NewRepository(store keyval.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger}
}

// Create persists a new poll and returns its organizer-only creation id and
// public poll id.
func (r *Repository) Create(ctx context.Context, questions []Question, anonymous bool) (string, string, error) {
	if len(questions) == 0 {
		return "", "", ErrNoQuestions
	}
	for i, q := range questions {
		if err := validateQuestion(i, q); err != nil {
			return "", "", err
		}
	}

	creationID, err := ident.NewCreationID()
	if err != nil {
		return "", "", fmt.Errorf("generate creation id: %w", err)
	}
	pollID, err := ident.NewPollID()
	if err != nil {
		return "", "", fmt.Errorf("generate poll id: %w", err)
	}

	anonymousFlag := "0"
	if anonymous {
		anonymousFlag = "1"
	}

	if err := r.store.Set(ctx, RevealedKey(pollID), "0"); err != nil {
		return "", "", err
	}
	if err := r.store.Set(ctx, AnonymousKey(pollID), anonymousFlag); err != nil {
		return "", "", err
	}
	if err := r.store.Set(ctx, QuestionCountKey(pollID), strconv.Itoa(len(questions))); err != nil {
		return "", "", err
	}
	for i, q := range questions {
		if err := r.store.Set(ctx, MetadataKey(pollID, i), EncodeQuestion(q)); err != nil {
			return "", "", err
		}
	}
	if err := r.store.Set(ctx, CreationKey(creationID), pollID); err != nil {
		return "", "", err
	}

	return creationID, pollID, nil
}

// Get reconstructs the full poll from stored metadata. Corrupted question
// records are logged and skipped; a poll with no readable questions is
// reported as not found.
func (r *Repository) Get(ctx context.Context, pollID string) (*Poll, error) {
	count, err := r.questionCount(ctx, pollID)
	if err != nil {
		return nil, err
	}

	revealed, _, err := r.store.Get(ctx, RevealedKey(pollID))
	if err != nil {
		return nil, err
	}
	anonymous, _, err := r.store.Get(ctx, AnonymousKey(pollID))
	if err != nil {
		return nil, err
	}

	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		raw, ok, err := r.store.Get(ctx, MetadataKey(pollID, i))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		q, err := DecodeQuestion(raw)
		if err != nil {
			r.logger.Warn("skipping corrupted question metadata",
				"poll_id", pollID, "question", i, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, ErrNotFound
	}

	return &Poll{
		Revealed:  revealed == "1",
		Anonymous: anonymous == "1",
		Questions: questions,
	}, nil
}

// GetByCreationID resolves the organizer mapping and returns the poll id
// together with the poll itself.
func (r *Repository) GetByCreationID(ctx context.Context, creationID string) (string, *Poll, error) {
	pollID, ok, err := r.store.Get(ctx, CreationKey(creationID))
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrNotFound
	}
	p, err := r.Get(ctx, pollID)
	if err != nil {
		return "", nil, err
	}
	return pollID, p, nil
}

// SetRevealed flips the poll's revealed flag. The transition is one-way; there
// is no corresponding clear.
func (r *Repository) SetRevealed(ctx context.Context, pollID string) error {
	return r.store.Set(ctx, RevealedKey(pollID), "1")
}

// Delete removes the poll and every derived key. It reports false when the
// creation id no longer resolves, which makes repeated deletion a no-op.
func (r *Repository) Delete(ctx context.Context, creationID string) (bool, error) {
	pollID, ok, err := r.store.Get(ctx, CreationKey(creationID))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	keys := []string{
		RevealedKey(pollID),
		AnonymousKey(pollID),
		CreationKey(creationID),
	}

	countRaw, ok, err := r.store.Get(ctx, QuestionCountKey(pollID))
	if err != nil {
		return false, err
	}
	if ok {
		count, err := strconv.Atoi(countRaw)
		if err != nil {
			r.logger.Warn("unreadable question count during delete",
				"poll_id", pollID, "value", countRaw)
			count = 0
		}
		for i := 0; i < count; i++ {
			keys = append(keys, MetadataKey(pollID, i), VotesKey(pollID, i), CountKey(pollID, i))
		}
	}
	keys = append(keys, QuestionCountKey(pollID))

	if err := r.store.Delete(ctx, keys...); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) questionCount(ctx context.Context, pollID string) (int, error) {
	raw, ok, err := r.store.Get(ctx, QuestionCountKey(pollID))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		r.logger.Warn("unreadable question count", "poll_id", pollID, "value", raw)
		return 0, ErrNotFound
	}
	return count, nil
}
