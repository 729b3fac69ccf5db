package rental

import (
	"context"

	"leasebook/pkg/domain"
)

// Store is the ledger the lifecycle service operates on: one Property record
// per registered property plus its per-property application set.
//
// Implementations are not required to be safe for concurrent use; the
// service serializes every operation that touches the store.
type Store interface {
	// Insert adds a new property. Fails with sentinel.ErrConflict when the
	// id is already registered.
	Insert(ctx context.Context, p Property) error

	// Get returns a copy of the property record. Fails with
	// sentinel.ErrNotFound when absent.
	Get(ctx context.Context, id domain.PropertyID) (Property, error)

	// Update replaces the property record. Fails with sentinel.ErrNotFound
	// when absent.
	Update(ctx context.Context, p Property) error

	// Remove deletes the property and its application set. Fails with
	// sentinel.ErrNotFound when absent.
	Remove(ctx context.Context, id domain.PropertyID) error

	// Contains reports whether the property is registered.
	Contains(ctx context.Context, id domain.PropertyID) bool

	// AddApplication appends an application. Fails with
	// sentinel.ErrNotFound when the property is absent and with
	// sentinel.ErrConflict when the applicant already applied.
	AddApplication(ctx context.Context, id domain.PropertyID, app Application) error

	// GetApplication returns the applicant's application for the property.
	// Fails with sentinel.ErrNotFound when either is absent.
	GetApplication(ctx context.Context, id domain.PropertyID, applicant domain.ParticipantID) (Application, error)

	// CountApplications returns the number of applications on file for the
	// property; zero when the property is absent.
	CountApplications(ctx context.Context, id domain.PropertyID) int
}
