package poll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("poll not found")
	ErrNoQuestions     = errors.New("poll must have at least one question")
	ErrNoOptions       = errors.New("question must have at least one option")
	ErrDuplicateOption = errors.New("question options must be distinct")
	ErrBadOptionText   = errors.New("option text contains a reserved delimiter")
)

// Question is one prompt of a poll. Options keep their creation order for
// display; the option set itself must be duplicate-free.
type Question struct {
	Description    string   `json:"description"`
	Options        []string `json:"options"`
	MultiSelection bool     `json:"multi_selection"`
}

// Poll is the stored poll state. Questions are immutable after creation and
// Revealed only ever flips false to true.
type Poll struct {
	Revealed  bool       `json:"revealed"`
	Anonymous bool       `json:"anonymous"`
	Questions []Question `json:"questions"`
}

// HasOption reports whether option belongs to the question's option set.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

func validateQuestion(i int, q Question) error {
	if len(q.Options) == 0 {
		return fmt.Errorf("question %d: %w", i, ErrNoOptions)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if strings.Contains(o, fieldDelimiter) || strings.Contains(o, optionDelimiter) {
			return fmt.Errorf("question %d: option %q: %w", i, o, ErrBadOptionText)
		}
		if _, dup := seen[o]; dup {
			return fmt.Errorf("question %d: option %q: %w", i, o, ErrDuplicateOption)
		}
		seen[o] = struct{}{}
	}
	if strings.Contains(q.Description, fieldDelimiter) {
		return fmt.Errorf("question %d: %w", i, ErrBadOptionText)
	}
	return nil
}
