package common

import (
	"fmt"
	"github.com/pkg/errors"
)

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// ErrorKind classifies every failure the RPC layer can produce.
type ErrorKind uint8

const (
	ErrKMalformedMessage ErrorKind = iota + 1 // Framing or decoding failed
	ErrKPersistence                           // Durable write failed, in-memory state was updated
	ErrKConnectFailed                         // Could not connect to the server (transient)
	ErrKTimeout                               // Deadline exceeded while talking to the server (transient)
	ErrKCallFailed                            // All attempts failed (terminal)
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKMalformedMessage:
		return "MalformedMessage"
	case ErrKPersistence:
		return "PersistenceError"
	case ErrKConnectFailed:
		return "ConnectFailed"
	case ErrKTimeout:
		return "Timeout"
	case ErrKCallFailed:
		return "CallFailed"
	default:
		return "Unknown"
	}
}

// Transient reports whether an error of this kind may resolve itself on retry
func (k ErrorKind) Transient() bool {
	return k == ErrKConnectFailed || k == ErrKTimeout
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps an ErrorKind, a message and the underlying cause (if any).
// Use errors.Is with the sentinel values below to test for a kind.
type Error struct {
	Kind  ErrorKind // The error kind
	Msg   string    // The error message
	Cause error     // The underlying error, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrTimeout) works for wrapped errors
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates a new Error with the given kind, cause and message
func NewError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		Cause: cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if there is none
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Sentinel values for errors.Is
var (
	ErrMalformedMessage = &Error{Kind: ErrKMalformedMessage, Msg: "malformed message"}
	ErrPersistence      = &Error{Kind: ErrKPersistence, Msg: "persistence failed"}
	ErrConnectFailed    = &Error{Kind: ErrKConnectFailed, Msg: "connect failed"}
	ErrTimeout          = &Error{Kind: ErrKTimeout, Msg: "timeout"}
	ErrCallFailed       = &Error{Kind: ErrKCallFailed, Msg: "call failed"}
)
