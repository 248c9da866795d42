package chat

import "errors"

var (
	// ErrMalformed is returned when an inbound frame is not a JSON object.
	ErrMalformed = errors.New("chat: malformed payload")

	// ErrMissingField is returned when a recognized event lacks a required field.
	ErrMissingField = errors.New("chat: missing required field")
)
