package wire

import (
	"math"

	"pds/chunk"
	"pds/hashid"
	"pds/ref"
	"pds/status"
	"pds/streams"
)

// WriteUInt32Array writes a homogeneous array of u32 values under key.
func (w *Writer) WriteUInt32Array(key string, vals []uint32) error {
	if err := w.requireIdle("WriteUInt32Array"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArrayUInt, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, 4, false, uint64(len(vals)))
	for _, v := range vals {
		w.ws.WriteUint32(v)
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// writeAbsentArray writes the null shape for an optional array: a large
// chunk under tag with no array header or payload at all, so its declared
// block end equals its payload start. This is the same convention
// WriteOptionalString uses for an absent string.
func (w *Writer) writeAbsentArray(tag chunk.Tag, key string) error {
	if err := w.requireIdle("writeAbsentArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, tag, key)
	if err != nil {
		return err
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// beginOptionalArray reads a large chunk header under tag and reports
// whether a value was actually written there, distinguishing the absent
// null shape (writeAbsentArray) from a present, possibly zero-length,
// array.
func (r *Reader) beginOptionalArray(tag chunk.Tag, key string) (hdr chunk.LargeHeader, present bool, err error) {
	hdr, err = chunk.ReadLargeHeader(r.rs, tag)
	if err != nil {
		return hdr, false, err
	}
	if hdr.Key != key {
		return hdr, false, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return hdr, hdr.PayloadStart != hdr.BlockEnd, nil
}

// WriteUInt64Array writes a homogeneous array of u64 values under key.
func (w *Writer) WriteUInt64Array(key string, vals []uint64) error {
	if err := w.requireIdle("WriteUInt64Array"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArrayUInt, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, 8, false, uint64(len(vals)))
	for _, v := range vals {
		w.ws.WriteUint64(v)
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalUInt64Array writes either an array or the absent null
// shape (spec §3's optional-vector container), distinguishable from a
// present empty array on read.
func (w *Writer) WriteOptionalUInt64Array(key string, vals *[]uint64) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayUInt, key)
	}
	return w.WriteUInt64Array(key, *vals)
}

// WriteFloat64Array writes a homogeneous array of f64 values under key.
func (w *Writer) WriteFloat64Array(key string, vals []float64) error {
	if err := w.requireIdle("WriteFloat64Array"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArrayFloat, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, 8, false, uint64(len(vals)))
	for _, v := range vals {
		w.ws.WriteUint64(math.Float64bits(v))
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalFloat64Array writes either an array or the absent null
// shape.
func (w *Writer) WriteOptionalFloat64Array(key string, vals *[]float64) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayFloat, key)
	}
	return w.WriteFloat64Array(key, *vals)
}

// WriteBoolArray writes a packed array of booleans under key.
func (w *Writer) WriteBoolArray(key string, vals []bool) error {
	if err := w.requireIdle("WriteBoolArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArrayBool, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, 1, false, uint64(len(vals)))
	packed := make([]byte, streams.BitsForCount(uint64(len(vals))))
	for i, v := range vals {
		if v {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	w.ws.WriteBytes(packed)
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalBoolArray writes either an array or the absent null shape.
func (w *Writer) WriteOptionalBoolArray(key string, vals *[]bool) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayBool, key)
	}
	return w.WriteBoolArray(key, *vals)
}

// WriteStringArray writes an array of UTF-8 strings under key.
func (w *Writer) WriteStringArray(key string, vals []string) error {
	if err := w.requireIdle("WriteStringArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArrayString, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, 0, false, uint64(len(vals)))
	for _, s := range vals {
		chunk.WriteString(w.ws, s)
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalStringArray writes either an array or the absent null
// shape.
func (w *Writer) WriteOptionalStringArray(key string, vals *[]string) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayString, key)
	}
	return w.WriteStringArray(key, *vals)
}

// WriteHashArray writes an array of 32-byte digests under key.
func (w *Writer) WriteHashArray(key string, vals []hashid.Hash) error {
	if err := w.requireIdle("WriteHashArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArrayHash, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, hashid.Size, false, uint64(len(vals)))
	for _, h := range vals {
		w.ws.WriteBytes(h[:])
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalHashArray writes either an array or the absent null shape.
func (w *Writer) WriteOptionalHashArray(key string, vals *[]hashid.Hash) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayHash, key)
	}
	return w.WriteHashArray(key, *vals)
}

// WriteUUIDArray writes an array of 16-byte UUIDs under key.
func (w *Writer) WriteUUIDArray(key string, vals [][16]byte) error {
	if err := w.requireIdle("WriteUUIDArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, chunk.ArrayUUID, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, 16, false, uint64(len(vals)))
	for _, id := range vals {
		w.ws.WriteBytes(id[:])
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalUUIDArray writes either an array or the absent null shape.
func (w *Writer) WriteOptionalUUIDArray(key string, vals *[][16]byte) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayUUID, key)
	}
	return w.WriteUUIDArray(key, *vals)
}

// WriteItemRefArray writes an array of item_ref values under key.
func (w *Writer) WriteItemRefArray(key string, vals []ref.ItemRef) error {
	ids := make([][16]byte, len(vals))
	for i, v := range vals {
		ids[i] = v.UUID()
	}
	return w.WriteUUIDArray(key, ids)
}

// WriteOptionalItemRefArray writes either an array of item_ref values or
// the absent null shape, in terms of WriteOptionalUUIDArray.
func (w *Writer) WriteOptionalItemRefArray(key string, vals *[]ref.ItemRef) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayUUID, key)
	}
	ids := make([][16]byte, len(*vals))
	for i, v := range *vals {
		ids[i] = v.UUID()
	}
	return w.WriteUUIDArray(key, ids)
}

// WriteEntityRefArray writes an array of entity_ref values under key.
func (w *Writer) WriteEntityRefArray(key string, vals []ref.EntityRef) error {
	hs := make([]hashid.Hash, len(vals))
	for i, v := range vals {
		hs[i] = v.Hash()
	}
	return w.WriteHashArray(key, hs)
}

// WriteOptionalEntityRefArray writes either an array of entity_ref values
// or the absent null shape, in terms of WriteOptionalHashArray.
func (w *Writer) WriteOptionalEntityRefArray(key string, vals *[]ref.EntityRef) error {
	if vals == nil {
		return w.writeAbsentArray(chunk.ArrayHash, key)
	}
	hs := make([]hashid.Hash, len(*vals))
	for i, v := range *vals {
		hs[i] = v.Hash()
	}
	return w.WriteHashArray(key, hs)
}

// --- reader-side array operations ---

// ReadUInt32Array reads an array written by WriteUInt32Array.
func (r *Reader) ReadUInt32Array(key string) ([]uint32, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArrayUInt)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	if ah.ItemWidth != 4 {
		return nil, status.New(status.CantRead, "key %q: expected item width 4, got %d", key, ah.ItemWidth)
	}
	vals := make([]uint32, ah.Count)
	for i := range vals {
		v, ok := r.rs.ReadUint32()
		if !ok {
			return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
		}
		vals[i] = v
	}
	return vals, hdr.CheckEnd(r.rs)
}

func (r *Reader) readUInt64ArrayBody(hdr chunk.LargeHeader, key string) ([]uint64, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	if ah.ItemWidth != 8 {
		return nil, status.New(status.CantRead, "key %q: expected item width 8, got %d", key, ah.ItemWidth)
	}
	vals := make([]uint64, ah.Count)
	for i := range vals {
		v, ok := r.rs.ReadUint64()
		if !ok {
			return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
		}
		vals[i] = v
	}
	return vals, hdr.CheckEnd(r.rs)
}

// ReadUInt64Array reads an array written by WriteUInt64Array.
func (r *Reader) ReadUInt64Array(key string) ([]uint64, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArrayUInt)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readUInt64ArrayBody(hdr, key)
}

// ReadOptionalUInt64Array reads either a value written by
// WriteOptionalUInt64Array or the absent null shape, returning (nil, nil)
// for the latter.
func (r *Reader) ReadOptionalUInt64Array(key string) (*[]uint64, error) {
	hdr, present, err := r.beginOptionalArray(chunk.ArrayUInt, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vals, err := r.readUInt64ArrayBody(hdr, key)
	if err != nil {
		return nil, err
	}
	return &vals, nil
}

func (r *Reader) readFloat64ArrayBody(hdr chunk.LargeHeader, key string) ([]float64, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, ah.Count)
	for i := range vals {
		v, ok := r.rs.ReadUint64()
		if !ok {
			return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
		}
		vals[i] = math.Float64frombits(v)
	}
	return vals, hdr.CheckEnd(r.rs)
}

// ReadFloat64Array reads an array written by WriteFloat64Array.
func (r *Reader) ReadFloat64Array(key string) ([]float64, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArrayFloat)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readFloat64ArrayBody(hdr, key)
}

// ReadOptionalFloat64Array reads either a value or the absent null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalFloat64Array(key string) (*[]float64, error) {
	hdr, present, err := r.beginOptionalArray(chunk.ArrayFloat, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vals, err := r.readFloat64ArrayBody(hdr, key)
	if err != nil {
		return nil, err
	}
	return &vals, nil
}

func (r *Reader) readBoolArrayBody(hdr chunk.LargeHeader, key string) ([]bool, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	packed := make([]byte, streams.BitsForCount(ah.Count))
	if n := r.rs.ReadBytes(packed); n != len(packed) {
		return nil, status.New(status.CantRead, "eof reading packed bool array %q", key)
	}
	vals := make([]bool, ah.Count)
	for i := range vals {
		vals[i] = packed[i/8]&(1<<uint(i%8)) != 0
	}
	return vals, hdr.CheckEnd(r.rs)
}

// ReadBoolArray reads an array written by WriteBoolArray.
func (r *Reader) ReadBoolArray(key string) ([]bool, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArrayBool)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readBoolArrayBody(hdr, key)
}

// ReadOptionalBoolArray reads either a value or the absent null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalBoolArray(key string) (*[]bool, error) {
	hdr, present, err := r.beginOptionalArray(chunk.ArrayBool, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vals, err := r.readBoolArrayBody(hdr, key)
	if err != nil {
		return nil, err
	}
	return &vals, nil
}

func (r *Reader) readStringArrayBody(hdr chunk.LargeHeader) ([]string, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	vals := make([]string, ah.Count)
	for i := range vals {
		s, err := chunk.ReadString(r.rs)
		if err != nil {
			return nil, err
		}
		vals[i] = s
	}
	return vals, hdr.CheckEnd(r.rs)
}

// ReadStringArray reads an array written by WriteStringArray.
func (r *Reader) ReadStringArray(key string) ([]string, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArrayString)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readStringArrayBody(hdr)
}

// ReadOptionalStringArray reads either a value or the absent null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalStringArray(key string) (*[]string, error) {
	hdr, present, err := r.beginOptionalArray(chunk.ArrayString, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vals, err := r.readStringArrayBody(hdr)
	if err != nil {
		return nil, err
	}
	return &vals, nil
}

func (r *Reader) readHashArrayBody(hdr chunk.LargeHeader, key string) ([]hashid.Hash, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	if ah.ItemWidth != hashid.Size {
		return nil, status.New(status.CantRead, "key %q: expected item width %d, got %d", key, hashid.Size, ah.ItemWidth)
	}
	vals := make([]hashid.Hash, ah.Count)
	for i := range vals {
		if n := r.rs.ReadBytes(vals[i][:]); n != hashid.Size {
			return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
		}
	}
	return vals, hdr.CheckEnd(r.rs)
}

// ReadHashArray reads an array written by WriteHashArray.
func (r *Reader) ReadHashArray(key string) ([]hashid.Hash, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArrayHash)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readHashArrayBody(hdr, key)
}

// ReadOptionalHashArray reads either a value or the absent null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalHashArray(key string) (*[]hashid.Hash, error) {
	hdr, present, err := r.beginOptionalArray(chunk.ArrayHash, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vals, err := r.readHashArrayBody(hdr, key)
	if err != nil {
		return nil, err
	}
	return &vals, nil
}

func (r *Reader) readUUIDArrayBody(hdr chunk.LargeHeader, key string) ([][16]byte, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	if ah.ItemWidth != 16 {
		return nil, status.New(status.CantRead, "key %q: expected item width 16, got %d", key, ah.ItemWidth)
	}
	vals := make([][16]byte, ah.Count)
	for i := range vals {
		if n := r.rs.ReadBytes(vals[i][:]); n != 16 {
			return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
		}
	}
	return vals, hdr.CheckEnd(r.rs)
}

// ReadUUIDArray reads an array written by WriteUUIDArray.
func (r *Reader) ReadUUIDArray(key string) ([][16]byte, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, chunk.ArrayUUID)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readUUIDArrayBody(hdr, key)
}

// ReadOptionalUUIDArray reads either a value or the absent null shape,
// returning (nil, nil) for null.
func (r *Reader) ReadOptionalUUIDArray(key string) (*[][16]byte, error) {
	hdr, present, err := r.beginOptionalArray(chunk.ArrayUUID, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vals, err := r.readUUIDArrayBody(hdr, key)
	if err != nil {
		return nil, err
	}
	return &vals, nil
}

// ReadItemRefArray reads an array written by WriteItemRefArray.
func (r *Reader) ReadItemRefArray(key string) ([]ref.ItemRef, error) {
	ids, err := r.ReadUUIDArray(key)
	if err != nil {
		return nil, err
	}
	vals := make([]ref.ItemRef, len(ids))
	for i, id := range ids {
		vals[i] = ref.ItemRefFromUUID(id)
	}
	return vals, nil
}

// ReadOptionalItemRefArray reads either an array of item_ref values or the
// absent null shape, in terms of ReadOptionalUUIDArray.
func (r *Reader) ReadOptionalItemRefArray(key string) (*[]ref.ItemRef, error) {
	ids, err := r.ReadOptionalUUIDArray(key)
	if err != nil || ids == nil {
		return nil, err
	}
	vals := make([]ref.ItemRef, len(*ids))
	for i, id := range *ids {
		vals[i] = ref.ItemRefFromUUID(id)
	}
	return &vals, nil
}

// ReadEntityRefArray reads an array written by WriteEntityRefArray.
func (r *Reader) ReadEntityRefArray(key string) ([]ref.EntityRef, error) {
	hs, err := r.ReadHashArray(key)
	if err != nil {
		return nil, err
	}
	vals := make([]ref.EntityRef, len(hs))
	for i, h := range hs {
		vals[i] = ref.EntityRefFromHash(h)
	}
	return vals, nil
}

// ReadOptionalEntityRefArray reads either an array of entity_ref values or
// the absent null shape, in terms of ReadOptionalHashArray.
func (r *Reader) ReadOptionalEntityRefArray(key string) (*[]ref.EntityRef, error) {
	hs, err := r.ReadOptionalHashArray(key)
	if err != nil || hs == nil {
		return nil, err
	}
	vals := make([]ref.EntityRef, len(*hs))
	for i, h := range *hs {
		vals[i] = ref.EntityRefFromHash(h)
	}
	return &vals, nil
}
