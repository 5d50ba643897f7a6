package core

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a note operation is attempted without an
// authenticated session.
var ErrUnauthorized = errors.New("no authenticated session")

// ValidationError reports input rejected locally, before any remote call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// RemoteError reports a failure from the remote document store. Message is a
// human-readable reason propagated verbatim from the gateway, not a code.
type RemoteError struct {
	Op      string // gateway operation, e.g. "create session", "list documents"
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s: %s", e.Op, e.Message)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRemote reports whether err originated at the remote store.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
