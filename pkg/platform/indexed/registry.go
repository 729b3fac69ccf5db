// Package indexed provides a generic keyed collection backed by a dense
// slice plus a key-to-slot index. All of contains/get/insert/remove are O(1);
// removal swaps the last element into the freed slot. The property ledger and
// every per-property applicant set are instances of this one structure.
package indexed

import (
	"fmt"

	"leasebook/pkg/platform/sentinel"
)

// Registry is a dense, index-backed collection.
//
// Invariant: for every present key k, slots[index[k]] holds k; len(slots)
// equals the number of present keys. A violation of this invariant is a
// defect in this package, not a caller error, and panics (see check).
//
// Registry is not safe for concurrent use; callers serialize access.
type Registry[K comparable, V any] struct {
	slots []entry[K, V]
	index map[K]int
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{index: make(map[K]int)}
}

// Len returns the number of present keys.
func (r *Registry[K, V]) Len() int { return len(r.slots) }

// Contains reports whether the key is present.
func (r *Registry[K, V]) Contains(k K) bool {
	_, ok := r.index[k]
	return ok
}

// Get returns the value stored under k.
//
// Errors: sentinel.ErrNotFound when the key is absent.
func (r *Registry[K, V]) Get(k K) (V, error) {
	i, ok := r.index[k]
	if !ok {
		var zero V
		return zero, sentinel.ErrNotFound
	}
	r.check(k, i)
	return r.slots[i].value, nil
}

// Insert appends v under k.
//
// Errors: sentinel.ErrConflict when the key is already present.
func (r *Registry[K, V]) Insert(k K, v V) error {
	if _, ok := r.index[k]; ok {
		return sentinel.ErrConflict
	}
	r.slots = append(r.slots, entry[K, V]{key: k, value: v})
	r.index[k] = len(r.slots) - 1
	return nil
}

// Update replaces the value stored under k in place.
//
// Errors: sentinel.ErrNotFound when the key is absent.
func (r *Registry[K, V]) Update(k K, v V) error {
	i, ok := r.index[k]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.check(k, i)
	r.slots[i].value = v
	return nil
}

// Remove deletes k, moving the physically last element into the freed slot
// and updating its recorded index. Only the moved element's index changes;
// every other key keeps its slot.
//
// Errors: sentinel.ErrNotFound when the key is absent.
func (r *Registry[K, V]) Remove(k K) error {
	i, ok := r.index[k]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.check(k, i)

	last := len(r.slots) - 1
	if i != last {
		moved := r.slots[last]
		r.slots[i] = moved
		r.index[moved.key] = i
	}
	r.slots[last] = entry[K, V]{} // release references
	r.slots = r.slots[:last]
	delete(r.index, k)
	return nil
}

// Keys returns the present keys in slot order. The slice is a copy.
func (r *Registry[K, V]) Keys() []K {
	keys := make([]K, len(r.slots))
	for i, e := range r.slots {
		keys[i] = e.key
	}
	return keys
}

// Values returns the stored values in slot order. The slice is a copy; the
// values themselves are shared.
func (r *Registry[K, V]) Values() []V {
	vals := make([]V, len(r.slots))
	for i, e := range r.slots {
		vals[i] = e.value
	}
	return vals
}

// check asserts the slot/index invariant for a key that the index claims is
// at slot i. Corruption here can only come from a bug in this package, so it
// is fatal rather than a returned error.
func (r *Registry[K, V]) check(k K, i int) {
	if i < 0 || i >= len(r.slots) || r.slots[i].key != k {
		panic(fmt.Sprintf("indexed: registry corruption: key %v claims slot %d of %d", k, i, len(r.slots)))
	}
}
