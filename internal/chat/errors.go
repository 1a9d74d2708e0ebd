package chat

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound signals an explicit operation on a session identifier
// that was never created. Read paths treat unknown sessions as empty instead.
var ErrSessionNotFound = errors.New("session not found")

// RetrievalError wraps a failure of the passage search backend. It is the
// only pipeline error surfaced to the transport layer; the user-facing
// handler maps it to a server error.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a completion backend failure (timeout, quota,
// malformed response). The pipeline absorbs it into a user-safe fallback
// reply; it never reaches the caller.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
