// Package chunk implements the wire framing rules of §4.2: small chunks for
// fixed-width scalar values, large chunks for sections, arrays and strings,
// and the array-payload sub-format shared by every array-typed value. This
// package knows nothing about entity semantics — it is pure framing — the
// wire package builds the section/array state machine on top of it.
package chunk

import (
	"pds/status"
	"pds/streams"
)

// Tag identifies the shape and element kind of a chunk. Values below 0x40
// take the small-chunk framing; values at or above 0x40 take the
// large-chunk framing. The numeric values match the original format
// byte-for-byte so wire output is interchangeable with it.
type Tag byte

const (
	Bool  Tag = 0x01
	Int   Tag = 0x02
	UInt  Tag = 0x03
	Float Tag = 0x04
	Vec2  Tag = 0x05
	Vec3  Tag = 0x06
	Vec4  Tag = 0x07
	IVec2 Tag = 0x08
	IVec3 Tag = 0x09
	IVec4 Tag = 0x0a
	UVec2 Tag = 0x0b
	UVec3 Tag = 0x0c
	UVec4 Tag = 0x0d
	Mat2  Tag = 0x0e
	Mat3  Tag = 0x0f
	Mat4  Tag = 0x10
	Quat  Tag = 0x11
	UUID  Tag = 0x12
	Hash  Tag = 0x13

	ArrayBool  Tag = 0x41
	ArrayInt   Tag = 0x42
	ArrayUInt  Tag = 0x43
	ArrayFloat Tag = 0x44
	ArrayVec2  Tag = 0x45
	ArrayVec3  Tag = 0x46
	ArrayVec4  Tag = 0x47
	ArrayIVec2 Tag = 0x48
	ArrayIVec3 Tag = 0x49
	ArrayIVec4 Tag = 0x4a
	ArrayUVec2 Tag = 0x4b
	ArrayUVec3 Tag = 0x4c
	ArrayUVec4 Tag = 0x4d
	ArrayMat2  Tag = 0x4e
	ArrayMat3  Tag = 0x4f
	ArrayMat4  Tag = 0x50
	ArrayQuat  Tag = 0x51
	ArrayUUID  Tag = 0x52
	ArrayHash  Tag = 0x53

	Subsection      Tag = 0xd0
	ArraySubsection Tag = 0xd1
	String          Tag = 0xe0
	ArrayString     Tag = 0xe1
)

// IsSmall reports whether tag uses the small-chunk framing.
func (t Tag) IsSmall() bool { return t < 0x40 }

// MaxKeyLength is the largest allowed key length for any chunk (spec §4.2).
const MaxKeyLength = 40

func validKey(key string) error {
	if len(key) < 1 || len(key) > MaxKeyLength {
		return status.New(status.CantWrite, "key %q has invalid length %d", key, len(key))
	}
	return nil
}

// WriteSmall emits a small chunk. payload may be nil to represent an
// optional-null value; otherwise its length is the fixed width for tag.
func WriteSmall(w *streams.WriteStream, tag Tag, key string, payload []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	blockSize := len(payload) + len(key)
	if blockSize > 255 {
		return status.New(status.CantWrite, "small chunk %q block size %d exceeds 255", key, blockSize)
	}
	if err := w.WriteByte(byte(tag)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(blockSize)); err != nil {
		return err
	}
	if len(payload) > 0 {
		w.WriteBytes(payload)
	}
	w.WriteBytes([]byte(key))
	return nil
}

// SmallValue is the result of successfully parsing a small chunk.
type SmallValue struct {
	Tag     Tag
	IsNull  bool
	Payload []byte
}

// ReadSmall parses a small chunk, validating that its tag matches wantTag,
// its key matches wantKey, and its declared size is one of the two shapes
// the spec allows: len(key) alone (null) or payloadWidth+len(key) (value).
func ReadSmall(r *streams.ReadStream, wantTag Tag, wantKey string, payloadWidth int) (SmallValue, error) {
	tagByte, ok := r.ReadByte()
	if !ok {
		return SmallValue{}, status.New(status.CantRead, "eof reading tag for key %q", wantKey)
	}
	if Tag(tagByte) != wantTag {
		return SmallValue{}, status.New(status.CantRead, "expected tag %#x for key %q, got %#x", byte(wantTag), wantKey, tagByte)
	}
	blockSize, ok := r.ReadByte()
	if !ok {
		return SmallValue{}, status.New(status.CantRead, "eof reading block size for key %q", wantKey)
	}

	isNull := int(blockSize) == len(wantKey)
	isValue := int(blockSize) == payloadWidth+len(wantKey)
	if !isNull && !isValue {
		return SmallValue{}, status.New(status.CantRead, "key %q: block size %d matches neither null (%d) nor value (%d) shape", wantKey, blockSize, len(wantKey), payloadWidth+len(wantKey))
	}

	var payload []byte
	if isValue {
		payload = make([]byte, payloadWidth)
		if n := r.ReadBytes(payload); n != payloadWidth {
			return SmallValue{}, status.New(status.CantRead, "eof reading payload for key %q", wantKey)
		}
	}

	keyBuf := make([]byte, len(wantKey))
	if n := r.ReadBytes(keyBuf); n != len(wantKey) {
		return SmallValue{}, status.New(status.CantRead, "eof reading key bytes for %q", wantKey)
	}
	if string(keyBuf) != wantKey {
		return SmallValue{}, status.New(status.CantRead, "key mismatch: expected %q, got %q", wantKey, string(keyBuf))
	}

	return SmallValue{Tag: wantTag, IsNull: isNull, Payload: payload}, nil
}

// LargeProlog records the bookkeeping needed to backfill a large chunk's
// block-size field once its payload has been written.
type LargeProlog struct {
	sizeFieldPos int
	payloadBase  int
}

// BeginLarge emits a large chunk's tag, size placeholder, key length and
// key, returning a LargeProlog to pass to EndLarge once the payload is
// written.
func BeginLarge(w *streams.WriteStream, tag Tag, key string) (LargeProlog, error) {
	if err := validKey(key); err != nil {
		return LargeProlog{}, err
	}
	if err := w.WriteByte(byte(tag)); err != nil {
		return LargeProlog{}, err
	}
	sizeFieldPos := w.Position()
	w.WriteUint64(0) // placeholder, backfilled by EndLarge
	if err := w.WriteByte(byte(len(key))); err != nil {
		return LargeProlog{}, err
	}
	w.WriteBytes([]byte(key))
	return LargeProlog{sizeFieldPos: sizeFieldPos, payloadBase: w.Position()}, nil
}

// EndLarge backfills the block-size field recorded by BeginLarge based on
// the writer's current position.
func EndLarge(w *streams.WriteStream, prolog LargeProlog) {
	blockSize := uint64(w.Position() - prolog.sizeFieldPos - 8)
	w.OverwriteUint64At(prolog.sizeFieldPos, blockSize)
}

// LargeHeader is the parsed prolog of a large chunk.
type LargeHeader struct {
	Tag          Tag
	Key          string
	PayloadStart int
	BlockEnd     int
}

// ReadLargeHeader parses a large chunk's prolog, validating the tag and
// that the declared block end lies within the stream.
func ReadLargeHeader(r *streams.ReadStream, wantTag Tag) (LargeHeader, error) {
	tagByte, ok := r.ReadByte()
	if !ok {
		return LargeHeader{}, status.New(status.CantRead, "eof reading large chunk tag")
	}
	if Tag(tagByte) != wantTag {
		return LargeHeader{}, status.New(status.CantRead, "expected large tag %#x, got %#x", byte(wantTag), tagByte)
	}
	blockSize, ok := r.ReadUint64()
	if !ok {
		return LargeHeader{}, status.New(status.CantRead, "eof reading block size")
	}
	posAfterSize := r.Position()
	keyLen, ok := r.ReadByte()
	if !ok {
		return LargeHeader{}, status.New(status.CantRead, "eof reading key length")
	}
	if int(keyLen) > MaxKeyLength {
		return LargeHeader{}, status.New(status.CantRead, "key length %d exceeds max %d", keyLen, MaxKeyLength)
	}
	keyBuf := make([]byte, keyLen)
	if n := r.ReadBytes(keyBuf); n != int(keyLen) {
		return LargeHeader{}, status.New(status.CantRead, "eof reading key bytes")
	}
	blockEnd := posAfterSize + int(blockSize)
	if blockEnd > r.Len() || blockEnd < r.Position() {
		return LargeHeader{}, status.New(status.Corrupted, "declared block end %d out of range (stream length %d)", blockEnd, r.Len())
	}
	return LargeHeader{
		Tag:          wantTag,
		Key:          string(keyBuf),
		PayloadStart: r.Position(),
		BlockEnd:     blockEnd,
	}, nil
}

// CheckEnd validates that the reader's cursor landed exactly on the
// header's declared block end, failing with cant_read on any drift.
func (h LargeHeader) CheckEnd(r *streams.ReadStream) error {
	if r.Position() != h.BlockEnd {
		return status.New(status.CantRead, "key %q: cursor %d does not match declared block end %d", h.Key, r.Position(), h.BlockEnd)
	}
	return nil
}

// Array flag bits, within the u16 flags word (low byte = per-item width).
const (
	arrayFlagHasIndex    = 1 << 8
	arrayFlagIndexIs64   = 1 << 9
)

// ArrayHeader is the parsed metadata prolog of an array payload.
type ArrayHeader struct {
	ItemWidth byte
	HasIndex  bool
	Count     uint64
}

// WriteArrayHeader emits the array metadata block: flags then item count.
func WriteArrayHeader(w *streams.WriteStream, itemWidth byte, hasIndex bool, count uint64) {
	flags := uint16(itemWidth)
	if hasIndex {
		flags |= arrayFlagHasIndex
	}
	w.WriteUint16(flags)
	w.WriteUint64(count)
}

// ReadArrayHeader parses the array metadata block, rejecting the reserved
// 64-bit index flag per the Non-goals.
func ReadArrayHeader(r *streams.ReadStream) (ArrayHeader, error) {
	flags, ok := r.ReadUint16()
	if !ok {
		return ArrayHeader{}, status.New(status.CantRead, "eof reading array flags")
	}
	if flags&arrayFlagIndexIs64 != 0 {
		return ArrayHeader{}, status.New(status.Invalid, "64-bit array indices are not supported")
	}
	count, ok := r.ReadUint64()
	if !ok {
		return ArrayHeader{}, status.New(status.CantRead, "eof reading array item count")
	}
	return ArrayHeader{
		ItemWidth: byte(flags & 0xff),
		HasIndex:  flags&arrayFlagHasIndex != 0,
		Count:     count,
	}, nil
}

// WriteArrayIndex emits the optional index sequence following the array
// metadata block: an item count then that many u32 indices.
func WriteArrayIndex(w *streams.WriteStream, indices []uint32) {
	w.WriteUint64(uint64(len(indices)))
	for _, idx := range indices {
		w.WriteUint32(idx)
	}
}

// ReadArrayIndex parses the index sequence written by WriteArrayIndex.
func ReadArrayIndex(r *streams.ReadStream) ([]uint32, error) {
	count, ok := r.ReadUint64()
	if !ok {
		return nil, status.New(status.CantRead, "eof reading array index count")
	}
	indices := make([]uint32, count)
	for i := range indices {
		v, ok := r.ReadUint32()
		if !ok {
			return nil, status.New(status.CantRead, "eof reading array index %d", i)
		}
		indices[i] = v
	}
	return indices, nil
}

// WriteString emits the standalone-string wire shape (length then bytes),
// used both inside a large string chunk and inside array-of-string item
// bytes.
func WriteString(w *streams.WriteStream, s string) {
	w.WriteUint64(uint64(len(s)))
	w.WriteBytes([]byte(s))
}

// ReadString parses the shape WriteString emits.
func ReadString(r *streams.ReadStream) (string, error) {
	n, ok := r.ReadUint64()
	if !ok {
		return "", status.New(status.CantRead, "eof reading string length")
	}
	if uint64(r.Remaining()) < n {
		return "", status.New(status.CantRead, "string length %d exceeds remaining stream", n)
	}
	buf := make([]byte, n)
	r.ReadBytes(buf)
	return string(buf), nil
}
