package domain

import (
	"github.com/google/uuid"

	dErrors "leasebook/pkg/domain-errors"
)

// PropertyID identifies a registered rental property.
// Invariant: a valid PropertyID is a non-nil UUID.
//
// Usage: construct via ParsePropertyID at trust boundaries; direct casting
// bypasses validation.
type PropertyID uuid.UUID

// ParticipantID identifies a marketplace participant (owner, applicant or
// tenant). Same invariants as PropertyID; the distinct type prevents
// cross-assignment at compile time.
type ParticipantID uuid.UUID

// ParsePropertyID constructs a PropertyID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or
// the nil UUID; no other errors are expected.
func ParsePropertyID(s string) (PropertyID, error) {
	u, err := parseUUID(s, "property id")
	if err != nil {
		return PropertyID{}, err
	}
	return PropertyID(u), nil
}

// ParseParticipantID constructs a ParticipantID from external input.
func ParseParticipantID(s string) (ParticipantID, error) {
	u, err := parseUUID(s, "participant id")
	if err != nil {
		return ParticipantID{}, err
	}
	return ParticipantID(u), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be nil")
	}
	return u, nil
}

// String returns the canonical UUID form.
func (p PropertyID) String() string { return uuid.UUID(p).String() }

// IsNil reports whether the id is the zero UUID.
func (p PropertyID) IsNil() bool { return uuid.UUID(p) == uuid.Nil }

// String returns the canonical UUID form.
func (p ParticipantID) String() string { return uuid.UUID(p).String() }

// IsNil reports whether the id is the zero UUID.
func (p ParticipantID) IsNil() bool { return uuid.UUID(p) == uuid.Nil }
