// Package domainerrors provides code-carrying domain errors. Services return
// these so transports can translate them into protocol responses without
// string matching, and so tests can assert on the exact failure kind.
//
// Import as dErrors to keep call sites short.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of domain failure.
type Code string

// Lifecycle guard failures. Each code corresponds to exactly one guard; a
// caller always receives the specific code, never a generic failure.
const (
	CodeAlreadyRegistered      Code = "already_registered"
	CodeNotRegistered          Code = "not_registered"
	CodeNotOwner               Code = "not_owner"
	CodeNotReadyForRent        Code = "not_ready_for_rent"
	CodeNotListedForRent       Code = "not_listed_for_rent"
	CodeNotAwaitingPayment     Code = "not_awaiting_payment"
	CodeAlreadyApplied         Code = "already_applied"
	CodeHasNotApplied          Code = "has_not_applied"
	CodeNotSelectedApplicant   Code = "not_selected_applicant"
	CodeInsufficientPayment    Code = "insufficient_payment"
	CodeInvalidStateForPricing Code = "invalid_state_for_pricing"
	CodePropertyActive         Code = "property_active"
)

// Transport and infrastructure failures.
const (
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeInternal     Code = "internal"
)

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code onto an HTTP status. Guard failures are
// client errors: the operation was understood and rejected.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeAlreadyRegistered, CodeAlreadyApplied:
		return http.StatusConflict
	case CodeNotRegistered:
		return http.StatusNotFound
	case CodeNotOwner, CodeNotSelectedApplicant, CodeForbidden:
		return http.StatusForbidden
	case CodeNotReadyForRent, CodeNotListedForRent, CodeNotAwaitingPayment,
		CodeInvalidStateForPricing, CodePropertyActive:
		return http.StatusConflict
	case CodeHasNotApplied:
		return http.StatusUnprocessableEntity
	case CodeInsufficientPayment:
		return http.StatusPaymentRequired
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
