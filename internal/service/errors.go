package service

import (
	"errors"
	"fmt"

	"github.com/guttosm/quotepulse/internal/screener"
	"github.com/guttosm/quotepulse/internal/yahoo"
)

// Kind classifies gateway failures.
type Kind string

const (
	// KindValidation means the parameters did not match the declared shape.
	KindValidation Kind = "validation"
	// KindUpstreamUnavailable means the provider (and any fallback) failed.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

// Error is a classified gateway failure.
//
// Fields:
//   - Kind: Failure class.
//   - Op: Operation name (e.g. "get_quote").
//   - Field: Offending parameter for validation failures.
//   - Status: Upstream HTTP status when one was observed, else 0.
//   - Err: Underlying cause.
type Error struct {
	Kind   Kind
	Op     string
	Field  string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindValidation {
		return e.Err.Error()
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or "" when err is not a
// gateway error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsUpstreamUnavailable reports whether err is an upstream failure.
func IsUpstreamUnavailable(err error) bool { return KindOf(err) == KindUpstreamUnavailable }

// NewValidationError builds a validation failure for field.
func NewValidationError(op, field, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Err: errors.New(msg)}
}

// upstream classifies a provider failure, keeping the last HTTP status seen.
func upstream(op string, err error) *Error {
	e := &Error{Kind: KindUpstreamUnavailable, Op: op, Err: err}

	var se *screener.StatusError
	var ae *yahoo.APIError
	switch {
	case errors.As(err, &se):
		e.Status = se.StatusCode
	case errors.As(err, &ae):
		e.Status = ae.StatusCode
	}
	return e
}
