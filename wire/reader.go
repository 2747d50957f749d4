package wire

import (
	"math"

	"pds/chunk"
	"pds/hashid"
	"pds/ref"
	"pds/status"
	"pds/streams"
)

// Reader drives the read side of the entity state machine, mirroring
// Writer's transitions exactly.
type Reader struct {
	rs    *streams.ReadStream
	st    state
	child *Reader

	sectionHeader chunk.LargeHeader

	arrayHeader chunk.LargeHeader
	arrayCount  uint64
	arrayNext   uint64
	elemEnd     int
}

// NewReader creates a root Reader over rs, in the idle state.
func NewReader(rs *streams.ReadStream) *Reader {
	return &Reader{rs: rs, st: stateIdle}
}

func (r *Reader) requireIdle(op string) error {
	if r.st != stateIdle {
		return status.New(status.InvalidParam, "%s: reader is not idle", op)
	}
	return nil
}

// BeginReadSection opens the named section. If nullSectionIsAllowed is true
// and the section is empty (zero-length payload), it returns (nil, nil);
// otherwise an empty section with nullSectionIsAllowed false is an error.
func (r *Reader) BeginReadSection(key string, nullSectionIsAllowed bool) (*Reader, error) {
	if err := r.requireIdle("BeginReadSection"); err != nil {
		return nil, err
	}
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.Subsection)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected section key %q, got %q", key, hdr.Key)
	}
	if hdr.PayloadStart == hdr.BlockEnd {
		if !nullSectionIsAllowed {
			return nil, status.New(status.CantRead, "section %q is empty but null is not allowed", key)
		}
		r.sectionHeader = hdr
		r.st = stateSectionOpen
		r.child = nil
		return nil, nil
	}
	r.sectionHeader = hdr
	r.st = stateSectionOpen
	r.child = &Reader{rs: r.rs, st: stateIdle}
	return r.child, nil
}

// EndReadSection closes the section opened by BeginReadSection, validating
// that the cursor landed exactly on the declared block end.
func (r *Reader) EndReadSection(child *Reader) error {
	if r.st != stateSectionOpen {
		return status.New(status.InvalidParam, "EndReadSection: no open section")
	}
	if child != nil {
		if r.child != child {
			return status.New(status.InvalidParam, "EndReadSection: mismatched child")
		}
		if child.st != stateIdle {
			return status.New(status.InvalidParam, "EndReadSection: child still open")
		}
	}
	if err := r.sectionHeader.CheckEnd(r.rs); err != nil {
		return err
	}
	r.st = stateIdle
	r.child = nil
	return nil
}

// BeginReadSectionsArray opens the named array of sections, returning its
// declared count. If index is non-nil and the array carries an index
// sequence, *index is set to that sequence; pass nil to skip index
// capture.
func (r *Reader) BeginReadSectionsArray(key string, index *[]uint32) (count uint64, err error) {
	if err := r.requireIdle("BeginReadSectionsArray"); err != nil {
		return 0, err
	}
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArraySubsection)
	if err != nil {
		return 0, err
	}
	if hdr.Key != key {
		return 0, status.New(status.CantRead, "expected array key %q, got %q", key, hdr.Key)
	}
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return 0, err
	}
	if ah.HasIndex {
		idx, err := chunk.ReadArrayIndex(r.rs)
		if err != nil {
			return 0, err
		}
		if index != nil {
			*index = idx
		}
	}
	r.arrayHeader = hdr
	r.arrayCount = ah.Count
	r.arrayNext = 0
	r.st = stateArrayOpen
	return ah.Count, nil
}

// BeginReadSectionInArray opens element i, enforcing monotonic order. If
// the element's declared size is zero and hasData is non-nil, *hasData is
// set to false and a nil Reader is returned with no error (the element was
// written absent); if hasData is nil in that situation, it is an error.
func (r *Reader) BeginReadSectionInArray(i uint64, hasData *bool) (*Reader, error) {
	if r.st != stateArrayOpen {
		return nil, status.New(status.InvalidParam, "BeginReadSectionInArray: no open array")
	}
	if i != r.arrayNext {
		return nil, status.New(status.InvalidParam, "BeginReadSectionInArray: expected index %d, got %d", r.arrayNext, i)
	}
	if i >= r.arrayCount {
		return nil, status.New(status.InvalidParam, "BeginReadSectionInArray: index %d out of bounds (count %d)", i, r.arrayCount)
	}
	size, ok := r.rs.ReadUint64()
	if !ok {
		return nil, status.New(status.CantRead, "eof reading element %d size", i)
	}
	if size == 0 {
		if hasData == nil {
			return nil, status.New(status.CantRead, "element %d has no data but hasData was not requested", i)
		}
		*hasData = false
		r.st = stateArrayElementOpen
		r.elemEnd = r.rs.Position()
		r.child = nil
		return nil, nil
	}
	if hasData != nil {
		*hasData = true
	}
	r.elemEnd = r.rs.Position() + int(size)
	r.st = stateArrayElementOpen
	r.child = &Reader{rs: r.rs, st: stateIdle}
	return r.child, nil
}

// EndReadSectionInArray closes the element opened by
// BeginReadSectionInArray, validating the cursor against the recorded end.
func (r *Reader) EndReadSectionInArray(child *Reader) error {
	if r.st != stateArrayElementOpen {
		return status.New(status.InvalidParam, "EndReadSectionInArray: no open element")
	}
	if child != nil {
		if r.child != child {
			return status.New(status.InvalidParam, "EndReadSectionInArray: mismatched child")
		}
		if child.st != stateIdle {
			return status.New(status.InvalidParam, "EndReadSectionInArray: child still open")
		}
	}
	if r.rs.Position() != r.elemEnd {
		return status.New(status.CantRead, "element cursor %d does not match recorded end %d", r.rs.Position(), r.elemEnd)
	}
	r.arrayNext++
	r.st = stateArrayOpen
	r.child = nil
	return nil
}

// EndReadSectionsArray closes the array opened by BeginReadSectionsArray.
func (r *Reader) EndReadSectionsArray() error {
	if r.st != stateArrayOpen {
		return status.New(status.InvalidParam, "EndReadSectionsArray: no open array")
	}
	if r.arrayNext != r.arrayCount {
		return status.New(status.InvalidParam, "EndReadSectionsArray: only read %d of %d elements", r.arrayNext, r.arrayCount)
	}
	if err := r.arrayHeader.CheckEnd(r.rs); err != nil {
		return err
	}
	r.st = stateIdle
	return nil
}

// --- scalar value operations ---

func (r *Reader) smallFixed(tag chunk.Tag, key string, width int) (chunk.SmallValue, error) {
	if err := r.requireIdle("read"); err != nil {
		return chunk.SmallValue{}, err
	}
	return chunk.ReadSmall(r.rs, tag, key, width)
}

// ReadBool reads a boolean under key.
func (r *Reader) ReadBool(key string) (bool, error) {
	v, err := r.smallFixed(chunk.Bool, key, 1)
	if err != nil {
		return false, err
	}
	if v.IsNull {
		return false, status.New(status.CantRead, "key %q: bool value is required but null", key)
	}
	return v.Payload[0] != 0, nil
}

// ReadInt64 reads a signed 64-bit integer under key.
func (r *Reader) ReadInt64(key string) (int64, error) {
	v, err := r.smallFixed(chunk.Int, key, 8)
	if err != nil {
		return 0, err
	}
	if v.IsNull {
		return 0, status.New(status.CantRead, "key %q: int64 value is required but null", key)
	}
	return int64(getLE(v.Payload)), nil
}

// ReadUInt16 reads an unsigned 16-bit integer under key.
func (r *Reader) ReadUInt16(key string) (uint16, error) {
	v, err := r.smallFixed(chunk.UInt, key, 2)
	if err != nil {
		return 0, err
	}
	if v.IsNull {
		return 0, status.New(status.CantRead, "key %q: uint16 value is required but null", key)
	}
	return uint16(getLE(v.Payload)), nil
}

// ReadUInt32 reads an unsigned 32-bit integer under key.
func (r *Reader) ReadUInt32(key string) (uint32, error) {
	v, err := r.smallFixed(chunk.UInt, key, 4)
	if err != nil {
		return 0, err
	}
	if v.IsNull {
		return 0, status.New(status.CantRead, "key %q: uint32 value is required but null", key)
	}
	return uint32(getLE(v.Payload)), nil
}

// ReadUInt64 reads an unsigned 64-bit integer under key.
func (r *Reader) ReadUInt64(key string) (uint64, error) {
	v, err := r.smallFixed(chunk.UInt, key, 8)
	if err != nil {
		return 0, err
	}
	if v.IsNull {
		return 0, status.New(status.CantRead, "key %q: uint64 value is required but null", key)
	}
	return getLE(v.Payload), nil
}

// ReadOptionalUInt64 reads an optional unsigned 64-bit integer, returning
// (nil, nil) for the null shape.
func (r *Reader) ReadOptionalUInt64(key string) (*uint64, error) {
	v, err := r.smallFixed(chunk.UInt, key, 8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	x := getLE(v.Payload)
	return &x, nil
}

// ReadOptionalBool reads either a value or the small-chunk null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalBool(key string) (*bool, error) {
	v, err := r.smallFixed(chunk.Bool, key, 1)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	b := v.Payload[0] != 0
	return &b, nil
}

// ReadFloat32 reads a 32-bit float under key.
func (r *Reader) ReadFloat32(key string) (float32, error) {
	v, err := r.smallFixed(chunk.Float, key, 4)
	if err != nil {
		return 0, err
	}
	if v.IsNull {
		return 0, status.New(status.CantRead, "key %q: float32 value is required but null", key)
	}
	return math.Float32frombits(uint32(getLE(v.Payload))), nil
}

// ReadFloat64 reads a 64-bit float under key.
func (r *Reader) ReadFloat64(key string) (float64, error) {
	v, err := r.smallFixed(chunk.Float, key, 8)
	if err != nil {
		return 0, err
	}
	if v.IsNull {
		return 0, status.New(status.CantRead, "key %q: float64 value is required but null", key)
	}
	return math.Float64frombits(getLE(v.Payload)), nil
}

// ReadOptionalFloat64 reads either a value or the small-chunk null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalFloat64(key string) (*float64, error) {
	v, err := r.smallFixed(chunk.Float, key, 8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	x := math.Float64frombits(getLE(v.Payload))
	return &x, nil
}

// ReadUUID reads a 16-byte UUID under key.
func (r *Reader) ReadUUID(key string) ([16]byte, error) {
	var id [16]byte
	v, err := r.smallFixed(chunk.UUID, key, 16)
	if err != nil {
		return id, err
	}
	if v.IsNull {
		return id, status.New(status.CantRead, "key %q: uuid value is required but null", key)
	}
	copy(id[:], v.Payload)
	return id, nil
}

// ReadOptionalUUID reads either a value or the small-chunk null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalUUID(key string) (*[16]byte, error) {
	v, err := r.smallFixed(chunk.UUID, key, 16)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	var id [16]byte
	copy(id[:], v.Payload)
	return &id, nil
}

// ReadHash reads a 32-byte digest under key.
func (r *Reader) ReadHash(key string) (hashid.Hash, error) {
	var h hashid.Hash
	v, err := r.smallFixed(chunk.Hash, key, hashid.Size)
	if err != nil {
		return h, err
	}
	if v.IsNull {
		return h, status.New(status.CantRead, "key %q: hash value is required but null", key)
	}
	copy(h[:], v.Payload)
	return h, nil
}

// ReadOptionalHash reads either a value or the small-chunk null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalHash(key string) (*hashid.Hash, error) {
	v, err := r.smallFixed(chunk.Hash, key, hashid.Size)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	var h hashid.Hash
	copy(h[:], v.Payload)
	return &h, nil
}

// ReadOptionalEntityRef reads either a value or the small-chunk null
// shape, in terms of ReadOptionalHash.
func (r *Reader) ReadOptionalEntityRef(key string) (*ref.EntityRef, error) {
	h, err := r.ReadOptionalHash(key)
	if err != nil || h == nil {
		return nil, err
	}
	er := ref.EntityRefFromHash(*h)
	return &er, nil
}

// ReadOptionalItemRef reads either a value or the small-chunk null shape,
// in terms of ReadOptionalUUID.
func (r *Reader) ReadOptionalItemRef(key string) (*ref.ItemRef, error) {
	id, err := r.ReadOptionalUUID(key)
	if err != nil || id == nil {
		return nil, err
	}
	ir := ref.ItemRefFromUUID(*id)
	return &ir, nil
}

// ReadEntityRef reads an entity_ref under key.
func (r *Reader) ReadEntityRef(key string) (ref.EntityRef, error) {
	h, err := r.ReadHash(key)
	if err != nil {
		return ref.NullEntityRef, err
	}
	return ref.EntityRefFromHash(h), nil
}

// ReadItemRef reads an item_ref under key.
func (r *Reader) ReadItemRef(key string) (ref.ItemRef, error) {
	id, err := r.ReadUUID(key)
	if err != nil {
		return ref.NullItemRef, err
	}
	return ref.ItemRefFromUUID(id), nil
}

// ReadString reads a UTF-8 string under key from a large string chunk.
func (r *Reader) ReadString(key string) (string, error) {
	if err := r.requireIdle("ReadString"); err != nil {
		return "", err
	}
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.String)
	if err != nil {
		return "", err
	}
	if hdr.Key != key {
		return "", status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	s, err := chunk.ReadString(r.rs)
	if err != nil {
		return "", err
	}
	return s, hdr.CheckEnd(r.rs)
}

// ReadOptionalString reads either a value or the null shape written by
// WriteOptionalString (a large string chunk with no payload at all),
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalString(key string) (*string, error) {
	if err := r.requireIdle("ReadOptionalString"); err != nil {
		return nil, err
	}
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.String)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	if hdr.PayloadStart == hdr.BlockEnd {
		return nil, nil
	}
	s, err := chunk.ReadString(r.rs)
	if err != nil {
		return nil, err
	}
	if err := hdr.CheckEnd(r.rs); err != nil {
		return nil, err
	}
	return &s, nil
}

// Position exposes the underlying cursor, used by Validate-time diagnostics.
func (r *Reader) Position() int { return r.rs.Position() }
