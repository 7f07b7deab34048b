package cachebox

import (
	"errors"
	"net/http"
)

// Kind is the stable error taxonomy callers branch on.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidKey
	KindInvalidSegment
	KindNotStarted
	KindBadRequest
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidKey:
		return "invalid key"
	case KindInvalidSegment:
		return "invalid segment"
	case KindNotStarted:
		return "not started"
	case KindBadRequest:
		return "bad request"
	case KindNotFound:
		return "not found"
	case KindInternal:
		return "internal error"
	default:
		return "unknown"
	}
}

// Status maps a kind onto an HTTP-style status code.
func (k Kind) Status() int {
	switch k {
	case KindInvalidKey, KindInvalidSegment, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrInvalidKey     = &Error{Kind: KindInvalidKey}
	ErrInvalidSegment = &Error{Kind: KindInvalidSegment}
	ErrNotStarted     = &Error{Kind: KindNotStarted}
	ErrBadRequest     = &Error{Kind: KindBadRequest}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrInternal       = &Error{Kind: KindInternal}
)

// Error is returned by every connector operation.
// Data holds transport metadata and is nil unless the backend attached some.
type Error struct {
	Kind    Kind
	Message string
	Data    map[string][]string
	Err     error
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// NewError builds a taxonomy error. Connector implementations use it; callers
// normally only inspect errors.
func NewError(kind Kind, msg string, cause error) *Error { return newError(kind, msg, cause) }

func (e *Error) Error() string {
	if e.Message == "" {
		return "cachebox: " + e.Kind.String()
	}
	return "cachebox: " + e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Status is the HTTP-style status code for the error's kind.
func (e *Error) Status() int { return e.Kind.Status() }

// KindOf reports the taxonomy kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NotStarted is returned by data operations issued while the connector is stopped.
func NotStarted() error {
	return newError(KindNotStarted, "Connection not started", nil)
}
