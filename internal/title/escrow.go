// Package title provides the in-process implementation of the external
// title-custody registry contract. It backs dev mode and tests; production
// deployments point the service at the real registry instead.
package title

import (
	"context"
	"sync"

	titleregistry "leasebook/contracts/titleregistry"
)

// InMemoryRegistry tracks title holders per property.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	holders map[string]titleregistry.Holder
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{holders: make(map[string]titleregistry.Holder)}
}

// Mint records a freshly issued title. Used to seed dev environments and
// tests; minting over an existing title replaces its holder.
func (r *InMemoryRegistry) Mint(propertyID string, holder titleregistry.Holder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holders[propertyID] = holder
}

func (r *InMemoryRegistry) CurrentHolder(_ context.Context, propertyID string) (titleregistry.Holder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	holder, ok := r.holders[propertyID]
	if !ok {
		return "", titleregistry.ErrUnknownTitle
	}
	return holder, nil
}

func (r *InMemoryRegistry) TransferCustody(_ context.Context, propertyID string, from, to titleregistry.Holder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	holder, ok := r.holders[propertyID]
	if !ok {
		return titleregistry.ErrUnknownTitle
	}
	if holder != from {
		return titleregistry.ErrNotHolder
	}
	r.holders[propertyID] = to
	return nil
}
