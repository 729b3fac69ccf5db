package memory

import (
	"context"
	"sync"

	"leasebook/pkg/domain"
	"leasebook/pkg/platform/events"
)

// InMemoryStore keeps emitted events per property. Used in dev mode and as
// the swap-in sink for tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.PropertyID][]events.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[domain.PropertyID][]events.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[domain.PropertyID][]events.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Property] = append(s.events[event.Property], event)
	return nil
}

func (s *InMemoryStore) ListByProperty(_ context.Context, property domain.PropertyID) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Event{}, s.events[property]...), nil
}

// ListAll returns every stored event across all properties.
func (s *InMemoryStore) ListAll(_ context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []events.Event
	for _, propertyEvents := range s.events {
		all = append(all, propertyEvents...)
	}
	return all, nil
}
