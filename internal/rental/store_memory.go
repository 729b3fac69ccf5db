package rental

import (
	"context"

	"leasebook/pkg/domain"
	"leasebook/pkg/platform/indexed"
)

// InMemoryStore is the ledger implementation: an indexed registry of
// property records, each carrying its own indexed registry of applications.
// Both levels share the same O(1) insert/lookup/swap-remove structure.
type InMemoryStore struct {
	properties *indexed.Registry[domain.PropertyID, *propertyRecord]
}

type propertyRecord struct {
	property     Property
	applications *indexed.Registry[domain.ParticipantID, Application]
}

// NewInMemoryStore creates an empty ledger.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		properties: indexed.New[domain.PropertyID, *propertyRecord](),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, p Property) error {
	rec := &propertyRecord{
		property:     p,
		applications: indexed.New[domain.ParticipantID, Application](),
	}
	return s.properties.Insert(p.ID, rec)
}

func (s *InMemoryStore) Get(_ context.Context, id domain.PropertyID) (Property, error) {
	rec, err := s.properties.Get(id)
	if err != nil {
		return Property{}, err
	}
	return rec.property, nil
}

func (s *InMemoryStore) Update(_ context.Context, p Property) error {
	rec, err := s.properties.Get(p.ID)
	if err != nil {
		return err
	}
	rec.property = p
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, id domain.PropertyID) error {
	return s.properties.Remove(id)
}

func (s *InMemoryStore) Contains(_ context.Context, id domain.PropertyID) bool {
	return s.properties.Contains(id)
}

func (s *InMemoryStore) AddApplication(_ context.Context, id domain.PropertyID, app Application) error {
	rec, err := s.properties.Get(id)
	if err != nil {
		return err
	}
	return rec.applications.Insert(app.Applicant, app)
}

func (s *InMemoryStore) GetApplication(_ context.Context, id domain.PropertyID, applicant domain.ParticipantID) (Application, error) {
	rec, err := s.properties.Get(id)
	if err != nil {
		return Application{}, err
	}
	return rec.applications.Get(applicant)
}

func (s *InMemoryStore) CountApplications(_ context.Context, id domain.PropertyID) int {
	rec, err := s.properties.Get(id)
	if err != nil {
		return 0
	}
	return rec.applications.Len()
}

// Len returns the number of registered properties.
func (s *InMemoryStore) Len() int { return s.properties.Len() }
