package poll

import "strconv"

// Key builders for the shared store namespace. The layout must match any
// existing deployment exactly, so every key is produced here and nowhere else.

func RevealedKey(pollID string) string      { return pollID + ":revealed" }
func AnonymousKey(pollID string) string     { return pollID + ":anonymous" }
func QuestionCountKey(pollID string) string { return pollID + ":question_count" }
func CreationKey(creationID string) string  { return creationID + ":poll_id" }

func MetadataKey(pollID string, question int) string {
	return pollID + ":q" + strconv.Itoa(question) + ":metadata"
}

func VotesKey(pollID string, question int) string {
	return pollID + ":q" + strconv.Itoa(question) + ":votes"
}

func CountKey(pollID string, question int) string {
	return pollID + ":q" + strconv.Itoa(question) + ":count"
}
