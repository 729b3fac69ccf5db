// Package titleregistry defines the contract between the marketplace core and
// the external title-custody registry. The registry is the system of record
// for who holds a property title; the core consults it exactly once per
// property, at registration time, to move the title into escrow.
//
// This lives in its own module so external collaborators can depend on the
// contract without pulling in the service.
package titleregistry

import (
	"context"
	"errors"
)

// Holder identifies a title holder. It is an opaque string on the wire; the
// service maps it onto its own participant identities.
type Holder string

// Registry is the custody interface the core consumes.
type Registry interface {
	// CurrentHolder reports who holds the title for the given property.
	CurrentHolder(ctx context.Context, propertyID string) (Holder, error)

	// TransferCustody moves the title from one holder to another. It fails
	// if from does not currently hold the title.
	TransferCustody(ctx context.Context, propertyID string, from, to Holder) error
}

// Errors returned by registry implementations.
var (
	// ErrUnknownTitle means no title exists for the property.
	ErrUnknownTitle = errors.New("titleregistry: unknown title")

	// ErrNotHolder means the from party does not hold the title.
	ErrNotHolder = errors.New("titleregistry: transfer from non-holder")
)
