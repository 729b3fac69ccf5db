// Package events carries the domain events the rental lifecycle emits. The
// events are hooks for an external attestation/reputation collaborator; the
// service itself never consumes them. Keep the model transport-agnostic so
// stores and sinks can fan out.
package events

import (
	"context"
	"time"

	"leasebook/pkg/domain"
)

// EventType names a lifecycle event. These six are the complete set; there
// are no late-payment, termination, or price-increase events.
type EventType string

const (
	EventPropertyRegistered EventType = "property_registered"
	EventPriceSet           EventType = "price_set"
	EventPropertyListed     EventType = "property_listed"
	EventApplicationMade    EventType = "application_submitted"
	EventApplicantSelected  EventType = "applicant_selected"
	EventRentStarted        EventType = "rent_started"
)

// IsValid checks if the event type is one of the supported values.
func (t EventType) IsValid() bool {
	switch t {
	case EventPropertyRegistered, EventPriceSet, EventPropertyListed,
		EventApplicationMade, EventApplicantSelected, EventRentStarted:
		return true
	}
	return false
}

// Event is a single lifecycle fact. Actor is the participant the event is
// about: the owner for registration/pricing/listing/selection, the applicant
// for applications, the tenant for rent start.
type Event struct {
	Type      EventType
	Property  domain.PropertyID
	Actor     domain.ParticipantID
	Price     domain.Amount // price_set and rent_started only
	Timestamp time.Time
	RequestID string // correlation id from the HTTP request, when present
}

// Store persists emitted events. Implementations must be safe for concurrent
// use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByProperty(ctx context.Context, property domain.PropertyID) ([]Event, error)
}
