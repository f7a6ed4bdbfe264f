// Package apperr defines the error kinds the order core surfaces to its
// callers. The transport layer maps them to HTTP statuses; everything
// else that goes wrong (connectivity, constraint violations) stays a
// plain error.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindNotFound covers a missing tenant, order, or an order scoped to
	// another tenant. Cross-tenant existence is never distinguishable
	// from non-existence.
	KindNotFound Kind = iota
	// KindValidation covers malformed or semantically invalid input.
	KindValidation
	// KindConflict covers well-formed requests whose state change is not
	// permitted: same-status transitions, an actor without standing, a
	// delete naming the wrong tenant.
	KindConflict
)

// Error is a domain error with one of the three kinds.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound builds a not-found error.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a conflict error.
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsValidation reports whether err is a validation domain error.
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsConflict reports whether err is a conflict domain error.
func IsConflict(err error) bool { return is(err, KindConflict) }
