package interview

import "errors"

var (
	// ErrInvalidRequest covers missing or malformed caller input. Surfaced as
	// a client error; retrying without changes will not help.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSessionNotFound is returned for unknown session ids and HR tokens.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInterviewCompleted rejects turn processing on a sealed session.
	ErrInterviewCompleted = errors.New("interview already completed")

	// ErrNoTranscript rejects completion when neither the session nor the
	// caller supplied any interview turns.
	ErrNoTranscript = errors.New("no interview turns found")
)
