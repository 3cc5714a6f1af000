package tally

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/sha3"

	"rocketvote/internal/domain/poll"
	"rocketvote/internal/metrics"
	"rocketvote/internal/platform/keyval"
)

var (
	ErrPollClosed      = errors.New("poll results already revealed")
	ErrInvalidQuestion = errors.New("question index out of range")
	ErrInvalidOption   = errors.New("option does not belong to question")
	ErrDuplicateOption = errors.New("option selected more than once")
	ErrSingleSelection = errors.New("question allows a single selection")
)

// QuestionVotes is one voter's selection for one question. An empty selection
// is a valid abstention and clears the voter's previous contribution.
type QuestionVotes struct {
	QuestionIndex   int      `json:"question_index"`
	SelectedOptions []string `json:"selected_options"`
}

// QuestionResult is the raw tally state of one question.
type QuestionResult struct {
	Ballots map[string][]string `json:"votes"`
	Counts  map[string]int64    `json:"counts"`
}

// Notifier receives a fire-and-forget signal after every accepted ballot.
type Notifier interface {
	VoteCast(pollID string)
}

// Engine records ballots and keeps per-option counters consistent with the
// latest ballot of every voter. Counter updates lean on the store's atomic
// increment so concurrent voters interleave safely; two concurrent re-votes
// from the same voter are a last-write-wins race on the ballot record.
type Engine struct {
	store    keyval.Store
	notifier Notifier
	logger   *slog.Logger
}

func NewEngine(store keyval.Store, notifier Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, notifier: notifier, logger: logger}
}

// CastBallot validates and applies a voter's selections. Validation runs over
// the whole submission before anything is written, so a rejected ballot leaves
// no partial state behind.
func (e *Engine) CastBallot(ctx context.Context, p *poll.Poll, pollID, principalID string, votes []QuestionVotes) error {
	if p.Revealed {
		return ErrPollClosed
	}

	// Index validation covers the whole submission before any selection is
	// inspected, so an out-of-range entry wins over a content error in an
	// earlier entry.
	for _, qv := range votes {
		if qv.QuestionIndex < 0 || qv.QuestionIndex >= len(p.Questions) {
			return fmt.Errorf("question %d: %w", qv.QuestionIndex, ErrInvalidQuestion)
		}
	}

	for _, qv := range votes {
		q := p.Questions[qv.QuestionIndex]
		if !q.MultiSelection && len(qv.SelectedOptions) > 1 {
			return fmt.Errorf("question %d: %w", qv.QuestionIndex, ErrSingleSelection)
		}
		seen := make(map[string]struct{}, len(qv.SelectedOptions))
		for _, option := range qv.SelectedOptions {
			if !q.HasOption(option) {
				return fmt.Errorf("question %d: option %q: %w", qv.QuestionIndex, option, ErrInvalidOption)
			}
			if _, dup := seen[option]; dup {
				return fmt.Errorf("question %d: option %q: %w", qv.QuestionIndex, option, ErrDuplicateOption)
			}
			seen[option] = struct{}{}
		}
	}

	voter := principalID
	if p.Anonymous {
		voter = AnonymousVoterID(principalID, pollID)
	}

	for _, qv := range votes {
		if err := e.applyVote(ctx, pollID, qv.QuestionIndex, voter, qv.SelectedOptions); err != nil {
			return err
		}
	}

	metrics.IncBallotCast()
	if e.notifier != nil {
		e.notifier.VoteCast(pollID)
	}
	return nil
}

// applyVote replaces the voter's ballot for one question: the previous
// selection's counters come down, the ballot is overwritten, the new
// selection's counters go up. Counters therefore always reflect exactly the
// current ballot, however many times the voter re-votes.
func (e *Engine) applyVote(ctx context.Context, pollID string, question int, voter string, selection []string) error {
	votesKey := poll.VotesKey(pollID, question)
	countKey := poll.CountKey(pollID, question)

	previous, hadPrevious, err := e.store.HashGet(ctx, votesKey, voter)
	if err != nil {
		return err
	}
	if hadPrevious {
		for _, option := range poll.DecodeSelection(previous) {
			if err := e.store.SortedSetIncrement(ctx, countKey, option, -1); err != nil {
				return err
			}
		}
	}

	if err := e.store.HashSet(ctx, votesKey, voter, poll.EncodeSelection(selection)); err != nil {
		return err
	}

	for _, option := range selection {
		if err := e.store.SortedSetIncrement(ctx, countKey, option, 1); err != nil {
			return err
		}
	}
	return nil
}

// Results returns every question's raw ballots and counters. No visibility
// check happens here; callers decide what participants may see.
func (e *Engine) Results(ctx context.Context, pollID string) ([]QuestionResult, error) {
	raw, ok, err := e.store.Get(ctx, poll.QuestionCountKey(pollID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, poll.ErrNotFound
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		e.logger.Warn("unreadable question count", "poll_id", pollID, "value", raw)
		return nil, poll.ErrNotFound
	}

	results := make([]QuestionResult, 0, count)
	for i := 0; i < count; i++ {
		ballots, err := e.store.HashGetAll(ctx, poll.VotesKey(pollID, i))
		if err != nil {
			return nil, err
		}
		decoded := make(map[string][]string, len(ballots))
		for voter, sel := range ballots {
			decoded[voter] = poll.DecodeSelection(sel)
		}

		scores, err := e.store.SortedSetRangeDescendingWithScores(ctx, poll.CountKey(pollID, i))
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int64, len(scores))
		for _, ms := range scores {
			counts[ms.Member] = int64(ms.Score)
		}

		results = append(results, QuestionResult{Ballots: decoded, Counts: counts})
	}
	return results, nil
}

// AnonymousVoterID maps a principal to a stable, non-reversible tally slot for
// one poll. The poll id in the input keeps the same principal unlinkable
// across polls.
func AnonymousVoterID(principalID, pollID string) string {
	sum := sha3.Sum256([]byte(principalID + ":" + pollID))
	return hex.EncodeToString(sum[:])
}
