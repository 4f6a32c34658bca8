package models

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller errors (empty question, malformed request).
// Handlers map it to a client-error status; it is returned before any
// external call is made.
var ErrInvalidInput = errors.New("invalid input")

// ErrArticleNotFound is returned by article lookups when no article matches.
var ErrArticleNotFound = errors.New("article not found")

// UpstreamError wraps a failure of an external collaborator (embedding
// service, generation service, article store) during answering. It carries a
// human-readable operation name; handlers map it to a server-error status.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an upstream failure of the named operation.
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
