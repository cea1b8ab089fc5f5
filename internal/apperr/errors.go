// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package apperr defines the error taxonomy shared by the providers, the
// record store and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindClient
	KindTimeout
	KindUnavailable
	KindMalformed
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	case KindMalformed:
		return "malformed"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrClient      = errors.New("invalid input")
	ErrTimeout     = errors.New("upstream: request timed out")
	ErrUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrMalformed   = errors.New("upstream: invalid response format or malformed data")
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindClient:
		return ErrClient
	case KindTimeout:
		return ErrTimeout
	case KindUnavailable:
		return ErrUnavailable
	case KindMalformed:
		return ErrMalformed
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrInternal
	}
}

// Error is the rich error carried through the submission flow. Message is
// safe to show to the submitter; Err holds the lower-level cause for logs.
type Error struct {
	Kind      Kind
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Operation == "" {
		return e.Message
	}
	msg := fmt.Sprintf("%s: %s", e.Operation, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Operation: op, Message: message}
}

// Wrap builds an Error of the given kind around a lower-level cause.
func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Operation: op, Message: message, Err: err}
}

// Client is shorthand for a KindClient error.
func Client(op, message string) *Error {
	return New(KindClient, op, message)
}

// NotFound is shorthand for a KindNotFound error.
func NotFound(op, message string) *Error {
	return New(KindNotFound, op, message)
}

// KindOf reports the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps a kind onto the status code reported to clients.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindClient, KindMalformed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
