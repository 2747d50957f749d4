package container

import (
	"pds/status"
	"pds/validate"
	"pds/wire"
)

// EntityCodec describes how to move one item-table value on and off the
// wire, writing directly into an already-open section (so the value's own
// fields sit at that section's top level, the same shape package records
// use for whole entities — spec §4.8).
type EntityCodec[V any] struct {
	WriteInto func(w *wire.Writer, v V) error
	ReadFrom  func(r *wire.Reader) (V, error)
	Validate  func(v V, val *validate.Validator)
}

// ItemTableFlags controls which null values ItemTable.Validate forbids.
type ItemTableFlags struct {
	AllowZeroKeys  bool
	AllowNullValue bool
}

// ItemTable is a mapping K -> optional owned V, where a slot may be null
// (spec §3). Keys are kept in insertion order; that order is the wire
// iteration order.
type ItemTable[K comparable, V any] struct {
	Flags ItemTableFlags
	ids   []K
	ents  []*V
	index map[K]int
}

// NewItemTable creates an empty table with the given flags.
func NewItemTable[K comparable, V any](flags ItemTableFlags) *ItemTable[K, V] {
	return &ItemTable[K, V]{Flags: flags, index: map[K]int{}}
}

// Len returns the number of keys in the table.
func (t *ItemTable[K, V]) Len() int { return len(t.ids) }

// Set inserts or replaces the slot for k. A nil v leaves the slot null.
func (t *ItemTable[K, V]) Set(k K, v *V) {
	if pos, ok := t.index[k]; ok {
		t.ents[pos] = v
		return
	}
	t.index[k] = len(t.ids)
	t.ids = append(t.ids, k)
	t.ents = append(t.ents, v)
}

// Get returns the slot for k, or (nil, false) if k is not present at all.
func (t *ItemTable[K, V]) Get(k K) (*V, bool) {
	pos, ok := t.index[k]
	if !ok {
		return nil, false
	}
	return t.ents[pos], true
}

// Clear empties the table, preserving its flags.
func (t *ItemTable[K, V]) Clear() {
	t.ids = nil
	t.ents = nil
	t.index = map[K]int{}
}

// DeepCopy overwrites t with an independent copy of src. A nil src clears t.
func (t *ItemTable[K, V]) DeepCopy(src *ItemTable[K, V]) {
	t.Clear()
	if src == nil {
		return
	}
	t.Flags = src.Flags
	for i, k := range src.ids {
		var v *V
		if src.ents[i] != nil {
			cp := *src.ents[i]
			v = &cp
		}
		t.Set(k, v)
	}
}

// Write emits the table under key as a section containing IDs (vector of
// keys, insertion order) and Ents (array-of-sections, same order; an
// element is empty iff the slot is null).
func (t *ItemTable[K, V]) Write(w *wire.Writer, key string, keyCodec Codec[K], valCodec EntityCodec[V]) error {
	child, err := w.BeginWriteSection(key)
	if err != nil {
		return err
	}
	if err := keyCodec.WriteVector(child, "IDs", t.ids); err != nil {
		return err
	}
	if err := child.BeginWriteSectionsArray("Ents", uint64(len(t.ids)), nil); err != nil {
		return err
	}
	for i, ent := range t.ents {
		elem, err := child.BeginWriteSectionInArray(uint64(i))
		if err != nil {
			return err
		}
		if ent != nil {
			if err := valCodec.WriteInto(elem, *ent); err != nil {
				return err
			}
		}
		if err := child.EndWriteSectionInArray(elem); err != nil {
			return err
		}
	}
	if err := child.EndWriteSectionsArray(); err != nil {
		return err
	}
	return w.EndWriteSection(child)
}

// Read reconstructs the table from key. It is an error for IDs and Ents to
// report different lengths.
func (t *ItemTable[K, V]) Read(r *wire.Reader, key string, keyCodec Codec[K], valCodec EntityCodec[V]) error {
	child, err := r.BeginReadSection(key, false)
	if err != nil {
		return err
	}
	ids, err := keyCodec.ReadVector(child, "IDs")
	if err != nil {
		return err
	}
	count, err := child.BeginReadSectionsArray("Ents", nil)
	if err != nil {
		return err
	}
	if count != uint64(len(ids)) {
		return status.New(status.Corrupted, "key %q: IDs length %d does not match Ents length %d", key, len(ids), count)
	}
	t.Clear()
	for i := uint64(0); i < count; i++ {
		var hasData bool
		elem, err := child.BeginReadSectionInArray(i, &hasData)
		if err != nil {
			return err
		}
		var slot *V
		if hasData {
			v, err := valCodec.ReadFrom(elem)
			if err != nil {
				return err
			}
			slot = &v
		}
		if err := child.EndReadSectionInArray(elem); err != nil {
			return err
		}
		t.Set(ids[i], slot)
	}
	if err := child.EndReadSectionsArray(); err != nil {
		return err
	}
	return r.EndReadSection(child)
}

// Validate enforces the flagged nullability invariants and recurses into
// every non-null value via valCodec.Validate.
func (t *ItemTable[K, V]) Validate(v *validate.Validator, keyIsZero func(K) bool, valCodec EntityCodec[V]) {
	for i, k := range t.ids {
		if !t.Flags.AllowZeroKeys && keyIsZero(k) {
			v.ReportError(validate.NullNotAllowed, "zero key at position %d is not allowed", i)
		}
		if t.ents[i] == nil {
			if !t.Flags.AllowNullValue {
				v.ReportError(validate.NullNotAllowed, "null value at position %d is not allowed", i)
			}
			continue
		}
		valCodec.Validate(*t.ents[i], v)
	}
}
