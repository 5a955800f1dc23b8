// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the domain services
// and the HTTP layer. Services return *Error values; handlers map the Kind
// to a status code with Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindDegraded        Kind = "provider_degraded"
	KindRateLimited     Kind = "rate_limited"
	KindProviderAuth    Kind = "provider_auth"
	KindProvider        Kind = "provider_error"
	KindUnknown         Kind = "unknown"
)

// statusByKind is the single source of truth for Kind -> HTTP status.
var statusByKind = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindDegraded:        http.StatusServiceUnavailable,
	KindRateLimited:     http.StatusTooManyRequests,
	KindProviderAuth:    http.StatusUnauthorized,
	KindProvider:        http.StatusInternalServerError,
	KindUnknown:         http.StatusInternalServerError,
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for field-level validation failures
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an error of the given kind that keeps cause in the chain.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func Validation(msg string) error {
	return New(KindValidation, msg)
}

// InvalidField reports a validation failure on a single named field.
func InvalidField(field, msg string) error {
	return &Error{Kind: KindValidation, Message: msg, Field: field}
}

func NotFound(msg string) error {
	return New(KindNotFound, msg)
}

func Conflict(msg string) error {
	return New(KindConflict, msg)
}

func Unauthenticated(msg string) error {
	return New(KindUnauthenticated, msg)
}

func Forbidden(msg string) error {
	return New(KindForbidden, msg)
}

// Degraded marks a provider that is unconfigured or unreachable.
func Degraded(msg string, cause error) error {
	return Wrap(KindDegraded, msg, cause)
}

// KindOf returns the Kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	if s, ok := statusByKind[KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing message for err. Unknown errors get a
// generic message so internal details never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnknown {
		return e.Message
	}
	return "An unexpected error occurred."
}
