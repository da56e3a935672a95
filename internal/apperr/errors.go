package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so transport layers can map it to a status code
// and error_code without inspecting error strings.
type Kind int

const (
	// InvalidInput means caller-supplied data failed validation. Never retried.
	InvalidInput Kind = iota
	// UpstreamUnavailable means the embedding or chat service could not be
	// reached or returned an error.
	UpstreamUnavailable
	// MalformedResponse means an upstream returned data violating the
	// expected shape (e.g. wrong vector dimensionality).
	MalformedResponse
	// IndexNotFound means the named vector index has not been provisioned.
	IndexNotFound
	// IndexCreationError means creating the vector index failed.
	IndexCreationError
	// StoreUnavailable means the document store could not be reached.
	StoreUnavailable
)

// Code returns the wire-level error code for the kind.
func (k Kind) Code() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	case MalformedResponse:
		return "malformed_response"
	case IndexNotFound:
		return "index_not_found"
	case IndexCreationError:
		return "index_creation_error"
	case StoreUnavailable:
		return "store_unavailable"
	default:
		return "internal_error"
	}
}

// Error is a classified application error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a classified error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err. Unclassified errors report as
// StoreUnavailable=false via ok.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
