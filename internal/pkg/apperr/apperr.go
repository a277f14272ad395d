// FILE: internal/pkg/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP boundary can map it to a status
// code without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindValidation
	KindProvider
	KindStore
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindProvider:
		return "provider"
	case KindStore:
		return "store"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error carries a kind, a client-safe message and an optional cause.
// The cause is logged server-side only, never serialized to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
