package domain

import dErrors "leasebook/pkg/domain-errors"

// RentalStatus is where a property sits in the rental lifecycle.
// Invariant: transitions only move forward through
// awaiting_price -> ready_for_rent -> listed_for_rent -> awaiting_payment ->
// rented; there are no back-transitions.
type RentalStatus string

const (
	// StatusAwaitingPrice: registered, owner has not set a monthly price yet.
	StatusAwaitingPrice RentalStatus = "awaiting_price"
	// StatusReadyForRent: priced, not yet visible to applicants.
	StatusReadyForRent RentalStatus = "ready_for_rent"
	// StatusListedForRent: accepting applications.
	StatusListedForRent RentalStatus = "listed_for_rent"
	// StatusAwaitingPayment: an applicant is selected, first rent not paid.
	StatusAwaitingPayment RentalStatus = "awaiting_payment"
	// StatusRented: first rent received, lease active.
	StatusRented RentalStatus = "rented"
)

// validStatuses is the single source of truth for valid lifecycle states.
var validStatuses = map[RentalStatus]bool{
	StatusAwaitingPrice:   true,
	StatusReadyForRent:    true,
	StatusListedForRent:   true,
	StatusAwaitingPayment: true,
	StatusRented:          true,
}

// ParseRentalStatus constructs a RentalStatus from external input.
func ParseRentalStatus(s string) (RentalStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := RentalStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown rental status: "+s)
	}
	return st, nil
}

// IsValid checks if the status is one of the supported lifecycle states.
func (s RentalStatus) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation.
func (s RentalStatus) String() string {
	return string(s)
}

// Display returns the human-readable form used in API responses and logs.
func (s RentalStatus) Display() string {
	switch s {
	case StatusAwaitingPrice:
		return "Awaiting price"
	case StatusReadyForRent:
		return "Ready for rent"
	case StatusListedForRent:
		return "Listed for rent"
	case StatusAwaitingPayment:
		return "Awaiting payment"
	case StatusRented:
		return "Rented"
	}
	return "Unknown"
}

// Removable reports whether a property in this state may leave the registry.
// Properties with a selected applicant or an active lease stay put.
func (s RentalStatus) Removable() bool {
	switch s {
	case StatusAwaitingPrice, StatusReadyForRent, StatusListedForRent:
		return true
	}
	return false
}
