package container

import (
	"pds/status"
	"pds/validate"
	"pds/wire"
)

// IndexedVector pairs a values sequence with an index sequence of 32-bit
// positions into it (spec §3). values.size() must fit in a uint32; every
// index must lie in [0, len(values)) (checked only at Validate time).
type IndexedVector[T any] struct {
	Values  []T
	Indices []uint32
}

// Clear empties the vector.
func (iv *IndexedVector[T]) Clear() {
	iv.Values = nil
	iv.Indices = nil
}

// DeepCopy overwrites iv with an independent copy of src. A nil src clears iv.
func (iv *IndexedVector[T]) DeepCopy(src *IndexedVector[T]) {
	if src == nil {
		iv.Clear()
		return
	}
	iv.Values = append([]T(nil), src.Values...)
	iv.Indices = append([]uint32(nil), src.Indices...)
}

// Write emits the vector under key as a section with Values and Indices
// vectors.
func (iv *IndexedVector[T]) Write(w *wire.Writer, key string, valCodec Codec[T]) error {
	child, err := w.BeginWriteSection(key)
	if err != nil {
		return err
	}
	if err := valCodec.WriteVector(child, "Values", iv.Values); err != nil {
		return err
	}
	if err := child.WriteUInt32Array("Indices", iv.Indices); err != nil {
		return err
	}
	return w.EndWriteSection(child)
}

// Read reconstructs the vector from key.
func (iv *IndexedVector[T]) Read(r *wire.Reader, key string, valCodec Codec[T]) error {
	child, err := r.BeginReadSection(key, false)
	if err != nil {
		return err
	}
	values, err := valCodec.ReadVector(child, "Values")
	if err != nil {
		return err
	}
	indices, err := child.ReadUInt32Array("Indices")
	if err != nil {
		return err
	}
	if err := r.EndReadSection(child); err != nil {
		return err
	}
	iv.Values = values
	iv.Indices = indices
	return nil
}

// Validate checks values.size() fits a uint32 and every index lies within
// [0, len(Values)), reporting the offending index position for each
// out-of-range entry (spec S6).
func (iv *IndexedVector[T]) Validate(v *validate.Validator) {
	if uint64(len(iv.Values)) > uint64(^uint32(0)) {
		v.ReportError(validate.InvalidCount, "values length %d exceeds uint32 range", len(iv.Values))
	}
	for pos, idx := range iv.Indices {
		if int(idx) >= len(iv.Values) {
			v.ReportError(validate.InvalidValue, "index at position %d (%d) is out of range for %d values", pos, idx, len(iv.Values))
		}
	}
}

// boundsCheck returns a hard error instead of a validator report for an
// out-of-range position or index; At calls it before indexing directly.
func (iv *IndexedVector[T]) boundsCheck(pos int) error {
	if pos < 0 || pos >= len(iv.Indices) {
		return status.New(status.InvalidParam, "index position %d out of range", pos)
	}
	idx := iv.Indices[pos]
	if int(idx) >= len(iv.Values) {
		return status.New(status.Invalid, "index at position %d (%d) is out of range for %d values", pos, idx, len(iv.Values))
	}
	return nil
}

// At returns the value the index at pos points to.
func (iv *IndexedVector[T]) At(pos int) (T, error) {
	var zero T
	if err := iv.boundsCheck(pos); err != nil {
		return zero, err
	}
	return iv.Values[iv.Indices[pos]], nil
}
