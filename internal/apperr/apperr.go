// Package apperr classifies every pipeline failure into one of a small set of kinds.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the taxonomy bucket of a failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindExtraction Kind = "extraction"
	KindUpstream   Kind = "upstream"
	KindRateLimit  Kind = "rate_limit"
	KindRender     Kind = "render"
)

// Error is the typed failure raised by the pipeline components.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	// Set only for KindRateLimit.
	Limit   int
	ResetAt time.Time
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation reports input that is malformed before any external call is made.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// Extraction reports a document that could not yield usable content.
func Extraction(message string, cause error) *Error {
	return &Error{Kind: KindExtraction, Message: message, Cause: cause}
}

// Upstream reports a structured-completion service that failed or broke its contract.
func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Cause: cause}
}

// RateLimited reports a quota denial; resetAt is when the caller may retry.
func RateLimited(limit int, resetAt time.Time) *Error {
	return &Error{
		Kind:    KindRateLimit,
		Message: "too many requests",
		Limit:   limit,
		ResetAt: resetAt,
	}
}

// Render reports a template strategy that could not produce output.
func Render(message string, cause error) *Error {
	return &Error{Kind: KindRender, Message: message, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
