package container

import (
	"pds/status"
	"pds/validate"
	"pds/wire"
)

// BidirectionalMap is a mapping where both directions resolve in O(1); both
// K and V must be unique within the map (spec §3). It is serialized as two
// parallel sequences, Keys[] and Values[], in insertion order.
type BidirectionalMap[K comparable, V comparable] struct {
	keys   []K
	values []V
	fwd    map[K]V
	bwd    map[V]K
}

// NewBidirectionalMap creates an empty map.
func NewBidirectionalMap[K comparable, V comparable]() *BidirectionalMap[K, V] {
	return &BidirectionalMap[K, V]{fwd: map[K]V{}, bwd: map[V]K{}}
}

// Len returns the number of key/value pairs.
func (m *BidirectionalMap[K, V]) Len() int { return len(m.keys) }

// Set inserts the mapping for k, maintaining both directions; setting a
// pair that is already present is a no-op. An existing mapping is never
// replaced: it returns invalid_param if v is already mapped from a different
// key, or k is already mapped to a different value (both would violate
// uniqueness).
func (m *BidirectionalMap[K, V]) Set(k K, v V) error {
	if existingV, ok := m.fwd[k]; ok {
		if existingV == v {
			return nil
		}
		return status.New(status.InvalidParam, "key already mapped to a different value")
	}
	if existingK, ok := m.bwd[v]; ok && existingK != k {
		return status.New(status.InvalidParam, "value already mapped from a different key")
	}
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
	m.fwd[k] = v
	m.bwd[v] = k
	return nil
}

// Forward looks up the value for k.
func (m *BidirectionalMap[K, V]) Forward(k K) (V, bool) { v, ok := m.fwd[k]; return v, ok }

// Backward looks up the key for v.
func (m *BidirectionalMap[K, V]) Backward(v V) (K, bool) { k, ok := m.bwd[v]; return k, ok }

// Clear empties the map.
func (m *BidirectionalMap[K, V]) Clear() {
	m.keys = nil
	m.values = nil
	m.fwd = map[K]V{}
	m.bwd = map[V]K{}
}

// DeepCopy overwrites m with an independent copy of src. A nil src clears m.
func (m *BidirectionalMap[K, V]) DeepCopy(src *BidirectionalMap[K, V]) {
	m.Clear()
	if src == nil {
		return
	}
	m.keys = append([]K(nil), src.keys...)
	m.values = append([]V(nil), src.values...)
	for k, v := range src.fwd {
		m.fwd[k] = v
	}
	for v, k := range src.bwd {
		m.bwd[v] = k
	}
}

// BidirectionalMapEquals reports whether a and b hold identical (key, value) sequences in
// the same order. Pointer-identical (including both nil) is true; exactly
// one nil is false.
func BidirectionalMapEquals[K comparable, V comparable](a, b *BidirectionalMap[K, V]) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if len(a.keys) != len(b.keys) {
		return false
	}
	for i := range a.keys {
		if a.keys[i] != b.keys[i] || a.values[i] != b.values[i] {
			return false
		}
	}
	return true
}

// Write emits the map under key as a section with parallel Keys/Values
// vectors in insertion order.
func (m *BidirectionalMap[K, V]) Write(w *wire.Writer, key string, keyCodec Codec[K], valCodec Codec[V]) error {
	child, err := w.BeginWriteSection(key)
	if err != nil {
		return err
	}
	if err := keyCodec.WriteVector(child, "Keys", m.keys); err != nil {
		return err
	}
	if err := valCodec.WriteVector(child, "Values", m.values); err != nil {
		return err
	}
	return w.EndWriteSection(child)
}

// Read reconstructs the map from key.
func (m *BidirectionalMap[K, V]) Read(r *wire.Reader, key string, keyCodec Codec[K], valCodec Codec[V]) error {
	child, err := r.BeginReadSection(key, false)
	if err != nil {
		return err
	}
	keys, err := keyCodec.ReadVector(child, "Keys")
	if err != nil {
		return err
	}
	values, err := valCodec.ReadVector(child, "Values")
	if err != nil {
		return err
	}
	if err := r.EndReadSection(child); err != nil {
		return err
	}
	if len(keys) != len(values) {
		return status.New(status.Corrupted, "key %q: Keys length %d does not match Values length %d", key, len(keys), len(values))
	}
	m.Clear()
	for i := range keys {
		if err := m.Set(keys[i], values[i]); err != nil {
			return status.New(status.Corrupted, "key %q: %v", key, err)
		}
	}
	return nil
}

// Validate checks the uniqueness invariants that Set already enforces at
// insertion time; for a map built only through Set this always succeeds,
// but Validate is still exposed for containers reconstructed by other
// means (e.g. directly populating the slices in a test).
func (m *BidirectionalMap[K, V]) Validate(v *validate.Validator) {
	seenK := map[K]bool{}
	seenV := map[V]bool{}
	for i, k := range m.keys {
		if seenK[k] {
			v.ReportError(validate.InvalidValue, "duplicate key at position %d", i)
		}
		seenK[k] = true
		val := m.values[i]
		if seenV[val] {
			v.ReportError(validate.InvalidValue, "duplicate value at position %d", i)
		}
		seenV[val] = true
	}
}
