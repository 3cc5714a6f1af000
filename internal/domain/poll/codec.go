package poll

import (
	"errors"
	"strings"
)

// Storage format shared with the original deployment: three fields joined by
// the field delimiter, options (and ballot selections) joined by the option
// delimiter. Neither delimiter may appear in option or description text.
const (
	fieldDelimiter  = "-;-"
	optionDelimiter = "-:-"
)

var ErrDecode = errors.New("malformed question metadata")

// EncodeQuestion renders a question as its stored string representation.
func EncodeQuestion(q Question) string {
	multi := "0"
	if q.MultiSelection {
		multi = "1"
	}
	return q.Description + fieldDelimiter + multi + fieldDelimiter + strings.Join(q.Options, optionDelimiter)
}

// DecodeQuestion parses the stored representation back into a question.
func DecodeQuestion(s string) (Question, error) {
	parts := strings.Split(s, fieldDelimiter)
	if len(parts) != 3 {
		return Question{}, ErrDecode
	}
	return Question{
		Description:    parts[0],
		MultiSelection: parts[1] == "1",
		Options:        strings.Split(parts[2], optionDelimiter),
	}, nil
}

// EncodeSelection renders one voter's selection for storage in the per-question
// ballot hash. An empty selection encodes as the empty string.
func EncodeSelection(options []string) string {
	return strings.Join(options, optionDelimiter)
}

// DecodeSelection is the inverse of EncodeSelection.
func DecodeSelection(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, optionDelimiter)
}
