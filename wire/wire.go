// Package wire implements the entity writer/reader state machine of §4.3:
// nested sections, arrays of sections, and the typed value read/write
// operations that dispatch to the chunk codec. Only one subsection may be
// open per writer/reader at a time; nested sections are modeled by handing
// the caller a child Writer/Reader with its own independent state.
package wire

import (
	"math"

	"pds/chunk"
	"pds/hashid"
	"pds/ref"
	"pds/status"
	"pds/streams"
)

type state int

const (
	stateIdle state = iota
	stateSectionOpen
	stateArrayOpen
	stateArrayElementOpen
)

// ArrayAbsent, passed as the count to BeginWriteSectionsArray, marks the
// whole array as absent (an optional-vector-of-sections with no value).
const ArrayAbsent = ^uint64(0)

// elementSizePlaceholder is the sentinel written before an array element's
// true size is known, mirroring the source's INT64_MAX placeholder.
const elementSizePlaceholder = uint64(math.MaxInt64)

// Writer drives the write side of the entity state machine over a single
// streams.WriteStream. The root Writer starts idle; BeginWriteSection and
// BeginWriteSectionsArray hand back child Writers scoped to the new nesting
// level. A Writer must not be shared between goroutines.
type Writer struct {
	ws    *streams.WriteStream
	st    state
	child *Writer

	sectionProlog chunk.LargeProlog

	arrayProlog   chunk.LargeProlog
	arrayCount    uint64
	arrayNext     uint64
	elemSizePos   int
}

// NewWriter creates a root Writer over ws, in the idle state.
func NewWriter(ws *streams.WriteStream) *Writer {
	return &Writer{ws: ws, st: stateIdle}
}

func (w *Writer) requireIdle(op string) error {
	if w.st != stateIdle {
		return status.New(status.InvalidParam, "%s: writer is not idle", op)
	}
	return nil
}

// BeginWriteSection opens a named nested section and returns a child Writer
// scoped to it. The receiver transitions to section-open until
// EndWriteSection is called with the same child.
func (w *Writer) BeginWriteSection(key string) (*Writer, error) {
	if err := w.requireIdle("BeginWriteSection"); err != nil {
		return nil, err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.Subsection, key)
	if err != nil {
		return nil, err
	}
	w.sectionProlog = prolog
	w.st = stateSectionOpen
	w.child = &Writer{ws: w.ws, st: stateIdle}
	return w.child, nil
}

// WriteNullSection writes an absent section under key: a large chunk with
// no payload at all, read back by BeginReadSection(key, true) as (nil,
// nil).
func (w *Writer) WriteNullSection(key string) error {
	child, err := w.BeginWriteSection(key)
	if err != nil {
		return err
	}
	return w.EndWriteSection(child)
}

// EndWriteSection closes the section opened by BeginWriteSection. child
// must be the exact Writer returned by BeginWriteSection and must itself be
// idle (every value and nested section within it closed).
func (w *Writer) EndWriteSection(child *Writer) error {
	if w.st != stateSectionOpen || w.child != child {
		return status.New(status.InvalidParam, "EndWriteSection: no matching open section")
	}
	if child.st != stateIdle {
		return status.New(status.InvalidParam, "EndWriteSection: child section still open")
	}
	chunk.EndLarge(w.ws, w.sectionProlog)
	w.st = stateIdle
	w.child = nil
	return nil
}

// BeginWriteSectionsArray opens a named array of sections. count is the
// number of elements to expect, or ArrayAbsent to mark the whole array as
// absent. If index is non-nil, it is written as the array's optional index
// sequence.
func (w *Writer) BeginWriteSectionsArray(key string, count uint64, index []uint32) error {
	if err := w.requireIdle("BeginWriteSectionsArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArraySubsection, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, 0, index != nil, count)
	if index != nil {
		chunk.WriteArrayIndex(w.ws, index)
	}
	w.arrayProlog = prolog
	w.arrayCount = count
	w.arrayNext = 0
	w.st = stateArrayOpen
	return nil
}

// BeginWriteSectionInArray opens element i of the current array. i must
// equal the next expected index (strict monotonic order starting at 0).
func (w *Writer) BeginWriteSectionInArray(i uint64) (*Writer, error) {
	if w.st != stateArrayOpen {
		return nil, status.New(status.InvalidParam, "BeginWriteSectionInArray: no open array")
	}
	if w.arrayCount != ArrayAbsent && i >= w.arrayCount {
		return nil, status.New(status.InvalidParam, "BeginWriteSectionInArray: index %d out of bounds (count %d)", i, w.arrayCount)
	}
	if i != w.arrayNext {
		return nil, status.New(status.InvalidParam, "BeginWriteSectionInArray: expected index %d, got %d", w.arrayNext, i)
	}
	w.elemSizePos = w.ws.Position()
	w.ws.WriteUint64(elementSizePlaceholder)
	w.st = stateArrayElementOpen
	w.child = &Writer{ws: w.ws, st: stateIdle}
	return w.child, nil
}

// EndWriteSectionInArray closes the element opened by
// BeginWriteSectionInArray, backfilling its declared size.
func (w *Writer) EndWriteSectionInArray(child *Writer) error {
	if w.st != stateArrayElementOpen || w.child != child {
		return status.New(status.InvalidParam, "EndWriteSectionInArray: no matching open element")
	}
	if child.st != stateIdle {
		return status.New(status.InvalidParam, "EndWriteSectionInArray: element still open")
	}
	size := uint64(w.ws.Position() - w.elemSizePos - 8)
	w.ws.OverwriteUint64At(w.elemSizePos, size)
	w.arrayNext++
	w.st = stateArrayOpen
	w.child = nil
	return nil
}

// EndWriteSectionsArray closes the array opened by BeginWriteSectionsArray.
// Every index in [0, count) must have been written first.
func (w *Writer) EndWriteSectionsArray() error {
	if w.st != stateArrayOpen {
		return status.New(status.InvalidParam, "EndWriteSectionsArray: no open array")
	}
	if w.arrayCount != ArrayAbsent && w.arrayNext != w.arrayCount {
		return status.New(status.InvalidParam, "EndWriteSectionsArray: only wrote %d of %d elements", w.arrayNext, w.arrayCount)
	}
	chunk.EndLarge(w.ws, w.arrayProlog)
	w.st = stateIdle
	return nil
}

// --- scalar value operations ---

func (w *Writer) smallFixed(tag chunk.Tag, key string, payload []byte) error {
	if err := w.requireIdle("write"); err != nil {
		return err
	}
	return chunk.WriteSmall(w.ws, tag, key, payload)
}

// WriteBool writes a single boolean under key.
func (w *Writer) WriteBool(key string, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return w.smallFixed(chunk.Bool, key, []byte{b})
}

// WriteInt64 writes a signed 64-bit integer under key.
func (w *Writer) WriteInt64(key string, v int64) error {
	return w.smallFixed(chunk.Int, key, le64(uint64(v)))
}

// WriteUInt16 writes an unsigned 16-bit integer under key.
func (w *Writer) WriteUInt16(key string, v uint16) error {
	return w.smallFixed(chunk.UInt, key, le16(v))
}

// WriteUInt32 writes an unsigned 32-bit integer under key.
func (w *Writer) WriteUInt32(key string, v uint32) error {
	return w.smallFixed(chunk.UInt, key, le32(v))
}

// WriteUInt64 writes an unsigned 64-bit integer under key.
func (w *Writer) WriteUInt64(key string, v uint64) error {
	return w.smallFixed(chunk.UInt, key, le64(v))
}

// WriteFloat32 writes a 32-bit float under key.
func (w *Writer) WriteFloat32(key string, v float32) error {
	return w.smallFixed(chunk.Float, key, le32(math.Float32bits(v)))
}

// WriteFloat64 writes a 64-bit float under key.
func (w *Writer) WriteFloat64(key string, v float64) error {
	return w.smallFixed(chunk.Float, key, le64(math.Float64bits(v)))
}

// WriteUUID writes a 16-byte UUID under key.
func (w *Writer) WriteUUID(key string, id [16]byte) error {
	return w.smallFixed(chunk.UUID, key, id[:])
}

// WriteHash writes a 32-byte digest under key.
func (w *Writer) WriteHash(key string, h hashid.Hash) error {
	return w.smallFixed(chunk.Hash, key, h[:])
}

// WriteEntityRef writes an entity_ref (wrapping a hash) under key.
func (w *Writer) WriteEntityRef(key string, r ref.EntityRef) error {
	return w.WriteHash(key, r.Hash())
}

// WriteItemRef writes an item_ref (wrapping a UUID) under key.
func (w *Writer) WriteItemRef(key string, r ref.ItemRef) error {
	return w.WriteUUID(key, r.UUID())
}

// WriteOptionalUInt64 writes either a value or the small-chunk null shape.
func (w *Writer) WriteOptionalUInt64(key string, v *uint64) error {
	if v == nil {
		return w.smallFixed(chunk.UInt, key, nil)
	}
	return w.WriteUInt64(key, *v)
}

// WriteOptionalBool writes either a value or the small-chunk null shape.
func (w *Writer) WriteOptionalBool(key string, v *bool) error {
	if v == nil {
		return w.smallFixed(chunk.Bool, key, nil)
	}
	return w.WriteBool(key, *v)
}

// WriteOptionalFloat64 writes either a value or the small-chunk null shape.
func (w *Writer) WriteOptionalFloat64(key string, v *float64) error {
	if v == nil {
		return w.smallFixed(chunk.Float, key, nil)
	}
	return w.WriteFloat64(key, *v)
}

// WriteOptionalHash writes either a value or the small-chunk null shape.
func (w *Writer) WriteOptionalHash(key string, v *hashid.Hash) error {
	if v == nil {
		return w.smallFixed(chunk.Hash, key, nil)
	}
	return w.WriteHash(key, *v)
}

// WriteOptionalUUID writes either a value or the small-chunk null shape.
func (w *Writer) WriteOptionalUUID(key string, v *[16]byte) error {
	if v == nil {
		return w.smallFixed(chunk.UUID, key, nil)
	}
	return w.WriteUUID(key, *v)
}

// WriteOptionalEntityRef writes either a value or the small-chunk null
// shape, in terms of WriteOptionalHash.
func (w *Writer) WriteOptionalEntityRef(key string, v *ref.EntityRef) error {
	if v == nil {
		return w.smallFixed(chunk.Hash, key, nil)
	}
	h := v.Hash()
	return w.WriteOptionalHash(key, &h)
}

// WriteOptionalItemRef writes either a value or the small-chunk null
// shape, in terms of WriteOptionalUUID.
func (w *Writer) WriteOptionalItemRef(key string, v *ref.ItemRef) error {
	if v == nil {
		return w.smallFixed(chunk.UUID, key, nil)
	}
	id := [16]byte(v.UUID())
	return w.WriteOptionalUUID(key, &id)
}

// WriteOptionalString writes either a value or the null shape: a large
// string chunk whose declared block end equals its payload start, the same
// convention BeginWriteSection uses for an absent section.
func (w *Writer) WriteOptionalString(key string, v *string) error {
	if err := w.requireIdle("WriteOptionalString"); err != nil {
		return err
	}
	if v == nil {
		prolog, err := chunk.BeginLarge(w.ws, chunk.String, key)
		if err != nil {
			return err
		}
		chunk.EndLarge(w.ws, prolog)
		return nil
	}
	return w.WriteString(key, *v)
}

// WriteString writes a UTF-8 string under key as a large string chunk.
func (w *Writer) WriteString(key string, s string) error {
	if err := w.requireIdle("WriteString"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.String, key)
	if err != nil {
		return err
	}
	chunk.WriteString(w.ws, s)
	chunk.EndLarge(w.ws, prolog)
	return nil
}

func le16(v uint16) []byte { b := make([]byte, 2); putLE(b, uint64(v)); return b }
func le32(v uint32) []byte { b := make([]byte, 4); putLE(b, uint64(v)); return b }
func le64(v uint64) []byte { b := make([]byte, 8); putLE(b, v); return b }

func putLE(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v)
		v >>= 8
	}
}

func getLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
