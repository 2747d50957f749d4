package wire

import (
	"math"

	"pds/chunk"
	"pds/status"
)

// This file wires up the aggregate element kinds (vectors, matrices, the
// quaternion) declared as chunk.Tag constants but otherwise unused: each
// family is one small/optional/vector/optional-vector codec shared by every
// fixed component count in that family (2/3/4 for vectors and the
// quaternion, 4/9/16 for Mat2/Mat3/Mat4), matching the original format's
// own per-family tag layout.

// --- float64-component family: Vec2/Vec3/Vec4, Mat2/Mat3/Mat4, Quat ---

// WriteFixedFloatVector writes len(vs) float64 components as a single
// fixed-width chunk under tag.
func (w *Writer) WriteFixedFloatVector(tag chunk.Tag, key string, vs []float64) error {
	buf := make([]byte, len(vs)*8)
	for i, v := range vs {
		putLE(buf[i*8:(i+1)*8], math.Float64bits(v))
	}
	return w.smallFixed(tag, key, buf)
}

// WriteOptionalFixedFloatVector writes either a value or the small-chunk
// null shape.
func (w *Writer) WriteOptionalFixedFloatVector(tag chunk.Tag, key string, vs *[]float64) error {
	if vs == nil {
		return w.smallFixed(tag, key, nil)
	}
	return w.WriteFixedFloatVector(tag, key, *vs)
}

// ReadFixedFloatVector reads n float64 components written by
// WriteFixedFloatVector.
func (r *Reader) ReadFixedFloatVector(tag chunk.Tag, key string, n int) ([]float64, error) {
	v, err := r.smallFixed(tag, key, n*8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, status.New(status.CantRead, "key %q: vector value is required but null", key)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(getLE(v.Payload[i*8 : (i+1)*8]))
	}
	return out, nil
}

// ReadOptionalFixedFloatVector reads either a value or the small-chunk
// null shape, returning (nil, nil) for null.
func (r *Reader) ReadOptionalFixedFloatVector(tag chunk.Tag, key string, n int) (*[]float64, error) {
	v, err := r.smallFixed(tag, key, n*8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(getLE(v.Payload[i*8 : (i+1)*8]))
	}
	return &out, nil
}

// WriteFixedFloatVectorArray writes an array of fixed-width float64 tuples
// under key, each with n components.
func (w *Writer) WriteFixedFloatVectorArray(tag chunk.Tag, key string, n int, vss [][]float64) error {
	if err := w.requireIdle("WriteFixedFloatVectorArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, tag, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, byte(n*8), false, uint64(len(vss)))
	for _, vs := range vss {
		if len(vs) != n {
			return status.New(status.InvalidParam, "key %q: expected %d components, got %d", key, n, len(vs))
		}
		for _, v := range vs {
			w.ws.WriteUint64(math.Float64bits(v))
		}
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalFixedFloatVectorArray writes either an array or the absent
// null shape.
func (w *Writer) WriteOptionalFixedFloatVectorArray(tag chunk.Tag, key string, n int, vss *[][]float64) error {
	if vss == nil {
		return w.writeAbsentArray(tag, key)
	}
	return w.WriteFixedFloatVectorArray(tag, key, n, *vss)
}

// ReadFixedFloatVectorArray reads an array written by
// WriteFixedFloatVectorArray.
func (r *Reader) ReadFixedFloatVectorArray(tag chunk.Tag, key string, n int) ([][]float64, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, tag)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readFixedFloatVectorArrayBody(hdr, key, n)
}

func (r *Reader) readFixedFloatVectorArrayBody(hdr chunk.LargeHeader, key string, n int) ([][]float64, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	if int(ah.ItemWidth) != n*8 {
		return nil, status.New(status.CantRead, "key %q: expected item width %d, got %d", key, n*8, ah.ItemWidth)
	}
	vss := make([][]float64, ah.Count)
	for i := range vss {
		vs := make([]float64, n)
		for j := range vs {
			v, ok := r.rs.ReadUint64()
			if !ok {
				return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
			}
			vs[j] = math.Float64frombits(v)
		}
		vss[i] = vs
	}
	return vss, hdr.CheckEnd(r.rs)
}

// ReadOptionalFixedFloatVectorArray reads either a value or the absent
// null shape, returning (nil, nil) for null.
func (r *Reader) ReadOptionalFixedFloatVectorArray(tag chunk.Tag, key string, n int) (*[][]float64, error) {
	hdr, present, err := r.beginOptionalArray(tag, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vss, err := r.readFixedFloatVectorArrayBody(hdr, key, n)
	if err != nil {
		return nil, err
	}
	return &vss, nil
}

// --- int64-component family: IVec2/IVec3/IVec4 ---

// WriteFixedIntVector writes len(vs) int64 components as a single
// fixed-width chunk under tag.
func (w *Writer) WriteFixedIntVector(tag chunk.Tag, key string, vs []int64) error {
	buf := make([]byte, len(vs)*8)
	for i, v := range vs {
		putLE(buf[i*8:(i+1)*8], uint64(v))
	}
	return w.smallFixed(tag, key, buf)
}

// WriteOptionalFixedIntVector writes either a value or the small-chunk
// null shape.
func (w *Writer) WriteOptionalFixedIntVector(tag chunk.Tag, key string, vs *[]int64) error {
	if vs == nil {
		return w.smallFixed(tag, key, nil)
	}
	return w.WriteFixedIntVector(tag, key, *vs)
}

// ReadFixedIntVector reads n int64 components written by
// WriteFixedIntVector.
func (r *Reader) ReadFixedIntVector(tag chunk.Tag, key string, n int) ([]int64, error) {
	v, err := r.smallFixed(tag, key, n*8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, status.New(status.CantRead, "key %q: vector value is required but null", key)
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(getLE(v.Payload[i*8 : (i+1)*8]))
	}
	return out, nil
}

// ReadOptionalFixedIntVector reads either a value or the small-chunk null
// shape, returning (nil, nil) for null.
func (r *Reader) ReadOptionalFixedIntVector(tag chunk.Tag, key string, n int) (*[]int64, error) {
	v, err := r.smallFixed(tag, key, n*8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(getLE(v.Payload[i*8 : (i+1)*8]))
	}
	return &out, nil
}

// WriteFixedIntVectorArray writes an array of fixed-width int64 tuples
// under key, each with n components.
func (w *Writer) WriteFixedIntVectorArray(tag chunk.Tag, key string, n int, vss [][]int64) error {
	if err := w.requireIdle("WriteFixedIntVectorArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, tag, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, byte(n*8), false, uint64(len(vss)))
	for _, vs := range vss {
		if len(vs) != n {
			return status.New(status.InvalidParam, "key %q: expected %d components, got %d", key, n, len(vs))
		}
		for _, v := range vs {
			w.ws.WriteUint64(uint64(v))
		}
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalFixedIntVectorArray writes either an array or the absent
// null shape.
func (w *Writer) WriteOptionalFixedIntVectorArray(tag chunk.Tag, key string, n int, vss *[][]int64) error {
	if vss == nil {
		return w.writeAbsentArray(tag, key)
	}
	return w.WriteFixedIntVectorArray(tag, key, n, *vss)
}

// ReadFixedIntVectorArray reads an array written by
// WriteFixedIntVectorArray.
func (r *Reader) ReadFixedIntVectorArray(tag chunk.Tag, key string, n int) ([][]int64, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, tag)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readFixedIntVectorArrayBody(hdr, key, n)
}

func (r *Reader) readFixedIntVectorArrayBody(hdr chunk.LargeHeader, key string, n int) ([][]int64, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	if int(ah.ItemWidth) != n*8 {
		return nil, status.New(status.CantRead, "key %q: expected item width %d, got %d", key, n*8, ah.ItemWidth)
	}
	vss := make([][]int64, ah.Count)
	for i := range vss {
		vs := make([]int64, n)
		for j := range vs {
			v, ok := r.rs.ReadUint64()
			if !ok {
				return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
			}
			vs[j] = int64(v)
		}
		vss[i] = vs
	}
	return vss, hdr.CheckEnd(r.rs)
}

// ReadOptionalFixedIntVectorArray reads either a value or the absent null
// shape, returning (nil, nil) for null.
func (r *Reader) ReadOptionalFixedIntVectorArray(tag chunk.Tag, key string, n int) (*[][]int64, error) {
	hdr, present, err := r.beginOptionalArray(tag, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vss, err := r.readFixedIntVectorArrayBody(hdr, key, n)
	if err != nil {
		return nil, err
	}
	return &vss, nil
}

// --- uint64-component family: UVec2/UVec3/UVec4 ---

// WriteFixedUintVector writes len(vs) uint64 components as a single
// fixed-width chunk under tag.
func (w *Writer) WriteFixedUintVector(tag chunk.Tag, key string, vs []uint64) error {
	buf := make([]byte, len(vs)*8)
	for i, v := range vs {
		putLE(buf[i*8:(i+1)*8], v)
	}
	return w.smallFixed(tag, key, buf)
}

// WriteOptionalFixedUintVector writes either a value or the small-chunk
// null shape.
func (w *Writer) WriteOptionalFixedUintVector(tag chunk.Tag, key string, vs *[]uint64) error {
	if vs == nil {
		return w.smallFixed(tag, key, nil)
	}
	return w.WriteFixedUintVector(tag, key, *vs)
}

// ReadFixedUintVector reads n uint64 components written by
// WriteFixedUintVector.
func (r *Reader) ReadFixedUintVector(tag chunk.Tag, key string, n int) ([]uint64, error) {
	v, err := r.smallFixed(tag, key, n*8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, status.New(status.CantRead, "key %q: vector value is required but null", key)
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = getLE(v.Payload[i*8 : (i+1)*8])
	}
	return out, nil
}

// ReadOptionalFixedUintVector reads either a value or the small-chunk null
// shape, returning (nil, nil) for null.
func (r *Reader) ReadOptionalFixedUintVector(tag chunk.Tag, key string, n int) (*[]uint64, error) {
	v, err := r.smallFixed(tag, key, n*8)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = getLE(v.Payload[i*8 : (i+1)*8])
	}
	return &out, nil
}

// WriteFixedUintVectorArray writes an array of fixed-width uint64 tuples
// under key, each with n components.
func (w *Writer) WriteFixedUintVectorArray(tag chunk.Tag, key string, n int, vss [][]uint64) error {
	if err := w.requireIdle("WriteFixedUintVectorArray"); err != nil {
		return err
	}
	prolog, err := chunk.BeginLarge(w.ws, tag, key)
	if err != nil {
		return err
	}
	chunk.WriteArrayHeader(w.ws, byte(n*8), false, uint64(len(vss)))
	for _, vs := range vss {
		if len(vs) != n {
			return status.New(status.InvalidParam, "key %q: expected %d components, got %d", key, n, len(vs))
		}
		for _, v := range vs {
			w.ws.WriteUint64(v)
		}
	}
	chunk.EndLarge(w.ws, prolog)
	return nil
}

// WriteOptionalFixedUintVectorArray writes either an array or the absent
// null shape.
func (w *Writer) WriteOptionalFixedUintVectorArray(tag chunk.Tag, key string, n int, vss *[][]uint64) error {
	if vss == nil {
		return w.writeAbsentArray(tag, key)
	}
	return w.WriteFixedUintVectorArray(tag, key, n, *vss)
}

// ReadFixedUintVectorArray reads an array written by
// WriteFixedUintVectorArray.
func (r *Reader) ReadFixedUintVectorArray(tag chunk.Tag, key string, n int) ([][]uint64, error) {
	hdr, err := chunk.ReadLargeHeader(r.rs, tag)
	if err != nil {
		return nil, err
	}
	if hdr.Key != key {
		return nil, status.New(status.CantRead, "expected key %q, got %q", key, hdr.Key)
	}
	return r.readFixedUintVectorArrayBody(hdr, key, n)
}

func (r *Reader) readFixedUintVectorArrayBody(hdr chunk.LargeHeader, key string, n int) ([][]uint64, error) {
	ah, err := chunk.ReadArrayHeader(r.rs)
	if err != nil {
		return nil, err
	}
	if int(ah.ItemWidth) != n*8 {
		return nil, status.New(status.CantRead, "key %q: expected item width %d, got %d", key, n*8, ah.ItemWidth)
	}
	vss := make([][]uint64, ah.Count)
	for i := range vss {
		vs := make([]uint64, n)
		for j := range vs {
			v, ok := r.rs.ReadUint64()
			if !ok {
				return nil, status.New(status.CantRead, "eof reading array element %d of %q", i, key)
			}
			vs[j] = v
		}
		vss[i] = vs
	}
	return vss, hdr.CheckEnd(r.rs)
}

// ReadOptionalFixedUintVectorArray reads either a value or the absent null
// shape, returning (nil, nil) for null.
func (r *Reader) ReadOptionalFixedUintVectorArray(tag chunk.Tag, key string, n int) (*[][]uint64, error) {
	hdr, present, err := r.beginOptionalArray(tag, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	vss, err := r.readFixedUintVectorArrayBody(hdr, key, n)
	if err != nil {
		return nil, err
	}
	return &vss, nil
}
