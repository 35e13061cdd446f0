package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure for transport-level mapping.
type ErrorKind int

const (
	// KindInternal is an unclassified server-side failure.
	KindInternal ErrorKind = iota
	// KindNotConfigured means a required credential or config value is missing.
	KindNotConfigured
	// KindNotFound means the referenced entity does not exist.
	KindNotFound
	// KindConflict means a duplicate create or a concurrent-write collision.
	KindConflict
	// KindInvalidInput means an enum or range violation in the request.
	KindInvalidInput
	// KindUnavailable means an upstream (document store or market data
	// provider) failed or timed out.
	KindUnavailable
)

// ServiceError carries an ErrorKind alongside a human-readable message.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...any) error {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a KindConflict error.
func Conflictf(format string, args ...any) error {
	return &ServiceError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputf builds a KindInvalidInput error.
func InvalidInputf(format string, args ...any) error {
	return &ServiceError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotConfiguredf builds a KindNotConfigured error.
func NotConfiguredf(format string, args ...any) error {
	return &ServiceError{Kind: KindNotConfigured, Message: fmt.Sprintf(format, args...)}
}

// Unavailablef builds a KindUnavailable error wrapping cause.
func Unavailablef(cause error, format string, args ...any) error {
	return &ServiceError{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the ErrorKind of err, or KindInternal for plain errors.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a KindNotFound service error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a KindConflict service error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
