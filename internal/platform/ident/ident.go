// Package ident generates the random identifiers polls are addressed by.
package ident

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	pollIDLength     = 7
	creationIDLength = 21
)

// NewPollID returns the short public identifier used in share URLs.
func NewPollID() (string, error) {
	return gonanoid.New(pollIDLength)
}

// NewCreationID returns the organizer-only secret identifier. Both generators
// accept the astronomically small collision risk instead of checking the
// store for an existing key.
func NewCreationID() (string, error) {
	return gonanoid.New(creationIDLength)
}
