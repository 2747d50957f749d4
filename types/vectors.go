package types

import (
	"pds/chunk"
	"pds/wire"
)

// Vec2, Vec3 and Vec4 are fixed-size float64 tuples, the element kind a
// Varying carries for KindVec2/KindVec3/KindVec4. Mat2/Mat3/Mat4 are their
// row-major square-matrix counterparts and Quat is a four-component
// quaternion; all seven share the same float64-component wire family.
type Vec2 [2]float64
type Vec3 [3]float64
type Vec4 [4]float64

// IVec2, IVec3 and IVec4 are fixed-size int64 tuples.
type IVec2 [2]int64
type IVec3 [3]int64
type IVec4 [4]int64

// UVec2, UVec3 and UVec4 are fixed-size uint64 tuples.
type UVec2 [2]uint64
type UVec3 [3]uint64
type UVec4 [4]uint64

// Mat2, Mat3 and Mat4 are row-major square matrices stored flat.
type Mat2 [4]float64
type Mat3 [9]float64
type Mat4 [16]float64

// Quat is a quaternion stored as (x, y, z, w).
type Quat [4]float64

func registerFloatVector[T comparable](kind ElementKind, tag, arrayTag chunk.Tag, n int, toSlice func(T) []float64, fromSlice func([]float64) T) {
	registerScalar(scalarCodec[T]{
		kind: kind,
		writeOne: func(w *wire.Writer, key string, v T) error {
			return w.WriteFixedFloatVector(tag, key, toSlice(v))
		},
		readOne: func(r *wire.Reader, key string) (T, error) {
			vs, err := r.ReadFixedFloatVector(tag, key, n)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromSlice(vs), nil
		},
		writeOptional: func(w *wire.Writer, key string, v *T) error {
			if v == nil {
				return w.WriteOptionalFixedFloatVector(tag, key, nil)
			}
			vs := toSlice(*v)
			return w.WriteOptionalFixedFloatVector(tag, key, &vs)
		},
		readOptional: func(r *wire.Reader, key string) (*T, error) {
			vs, err := r.ReadOptionalFixedFloatVector(tag, key, n)
			if err != nil || vs == nil {
				return nil, err
			}
			v := fromSlice(*vs)
			return &v, nil
		},
		writeVector: func(w *wire.Writer, key string, vs []T) error {
			vss := make([][]float64, len(vs))
			for i, v := range vs {
				vss[i] = toSlice(v)
			}
			return w.WriteFixedFloatVectorArray(arrayTag, key, n, vss)
		},
		readVector: func(r *wire.Reader, key string) ([]T, error) {
			vss, err := r.ReadFixedFloatVectorArray(arrayTag, key, n)
			if err != nil {
				return nil, err
			}
			out := make([]T, len(vss))
			for i, vs := range vss {
				out[i] = fromSlice(vs)
			}
			return out, nil
		},
		writeOptionalVector: func(w *wire.Writer, key string, vs *[]T) error {
			if vs == nil {
				return w.WriteOptionalFixedFloatVectorArray(arrayTag, key, n, nil)
			}
			vss := make([][]float64, len(*vs))
			for i, v := range *vs {
				vss[i] = toSlice(v)
			}
			return w.WriteOptionalFixedFloatVectorArray(arrayTag, key, n, &vss)
		},
		readOptionalVector: func(r *wire.Reader, key string) (*[]T, error) {
			vss, err := r.ReadOptionalFixedFloatVectorArray(arrayTag, key, n)
			if err != nil || vss == nil {
				return nil, err
			}
			out := make([]T, len(*vss))
			for i, vs := range *vss {
				out[i] = fromSlice(vs)
			}
			return &out, nil
		},
	})
}

func registerIntVector[T comparable](kind ElementKind, tag, arrayTag chunk.Tag, n int, toSlice func(T) []int64, fromSlice func([]int64) T) {
	registerScalar(scalarCodec[T]{
		kind: kind,
		writeOne: func(w *wire.Writer, key string, v T) error {
			return w.WriteFixedIntVector(tag, key, toSlice(v))
		},
		readOne: func(r *wire.Reader, key string) (T, error) {
			vs, err := r.ReadFixedIntVector(tag, key, n)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromSlice(vs), nil
		},
		writeOptional: func(w *wire.Writer, key string, v *T) error {
			if v == nil {
				return w.WriteOptionalFixedIntVector(tag, key, nil)
			}
			vs := toSlice(*v)
			return w.WriteOptionalFixedIntVector(tag, key, &vs)
		},
		readOptional: func(r *wire.Reader, key string) (*T, error) {
			vs, err := r.ReadOptionalFixedIntVector(tag, key, n)
			if err != nil || vs == nil {
				return nil, err
			}
			v := fromSlice(*vs)
			return &v, nil
		},
		writeVector: func(w *wire.Writer, key string, vs []T) error {
			vss := make([][]int64, len(vs))
			for i, v := range vs {
				vss[i] = toSlice(v)
			}
			return w.WriteFixedIntVectorArray(arrayTag, key, n, vss)
		},
		readVector: func(r *wire.Reader, key string) ([]T, error) {
			vss, err := r.ReadFixedIntVectorArray(arrayTag, key, n)
			if err != nil {
				return nil, err
			}
			out := make([]T, len(vss))
			for i, vs := range vss {
				out[i] = fromSlice(vs)
			}
			return out, nil
		},
		writeOptionalVector: func(w *wire.Writer, key string, vs *[]T) error {
			if vs == nil {
				return w.WriteOptionalFixedIntVectorArray(arrayTag, key, n, nil)
			}
			vss := make([][]int64, len(*vs))
			for i, v := range *vs {
				vss[i] = toSlice(v)
			}
			return w.WriteOptionalFixedIntVectorArray(arrayTag, key, n, &vss)
		},
		readOptionalVector: func(r *wire.Reader, key string) (*[]T, error) {
			vss, err := r.ReadOptionalFixedIntVectorArray(arrayTag, key, n)
			if err != nil || vss == nil {
				return nil, err
			}
			out := make([]T, len(*vss))
			for i, vs := range *vss {
				out[i] = fromSlice(vs)
			}
			return &out, nil
		},
	})
}

func registerUintVector[T comparable](kind ElementKind, tag, arrayTag chunk.Tag, n int, toSlice func(T) []uint64, fromSlice func([]uint64) T) {
	registerScalar(scalarCodec[T]{
		kind: kind,
		writeOne: func(w *wire.Writer, key string, v T) error {
			return w.WriteFixedUintVector(tag, key, toSlice(v))
		},
		readOne: func(r *wire.Reader, key string) (T, error) {
			vs, err := r.ReadFixedUintVector(tag, key, n)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromSlice(vs), nil
		},
		writeOptional: func(w *wire.Writer, key string, v *T) error {
			if v == nil {
				return w.WriteOptionalFixedUintVector(tag, key, nil)
			}
			vs := toSlice(*v)
			return w.WriteOptionalFixedUintVector(tag, key, &vs)
		},
		readOptional: func(r *wire.Reader, key string) (*T, error) {
			vs, err := r.ReadOptionalFixedUintVector(tag, key, n)
			if err != nil || vs == nil {
				return nil, err
			}
			v := fromSlice(*vs)
			return &v, nil
		},
		writeVector: func(w *wire.Writer, key string, vs []T) error {
			vss := make([][]uint64, len(vs))
			for i, v := range vs {
				vss[i] = toSlice(v)
			}
			return w.WriteFixedUintVectorArray(arrayTag, key, n, vss)
		},
		readVector: func(r *wire.Reader, key string) ([]T, error) {
			vss, err := r.ReadFixedUintVectorArray(arrayTag, key, n)
			if err != nil {
				return nil, err
			}
			out := make([]T, len(vss))
			for i, vs := range vss {
				out[i] = fromSlice(vs)
			}
			return out, nil
		},
		writeOptionalVector: func(w *wire.Writer, key string, vs *[]T) error {
			if vs == nil {
				return w.WriteOptionalFixedUintVectorArray(arrayTag, key, n, nil)
			}
			vss := make([][]uint64, len(*vs))
			for i, v := range *vs {
				vss[i] = toSlice(v)
			}
			return w.WriteOptionalFixedUintVectorArray(arrayTag, key, n, &vss)
		},
		readOptionalVector: func(r *wire.Reader, key string) (*[]T, error) {
			vss, err := r.ReadOptionalFixedUintVectorArray(arrayTag, key, n)
			if err != nil || vss == nil {
				return nil, err
			}
			out := make([]T, len(*vss))
			for i, vs := range *vss {
				out[i] = fromSlice(vs)
			}
			return &out, nil
		},
	})
}

func init() {
	registerFloatVector(KindVec2, chunk.Vec2, chunk.ArrayVec2, 2,
		func(v Vec2) []float64 { return v[:] },
		func(vs []float64) Vec2 { return Vec2{vs[0], vs[1]} })
	registerFloatVector(KindVec3, chunk.Vec3, chunk.ArrayVec3, 3,
		func(v Vec3) []float64 { return v[:] },
		func(vs []float64) Vec3 { return Vec3{vs[0], vs[1], vs[2]} })
	registerFloatVector(KindVec4, chunk.Vec4, chunk.ArrayVec4, 4,
		func(v Vec4) []float64 { return v[:] },
		func(vs []float64) Vec4 { return Vec4{vs[0], vs[1], vs[2], vs[3]} })

	registerIntVector(KindIVec2, chunk.IVec2, chunk.ArrayIVec2, 2,
		func(v IVec2) []int64 { return v[:] },
		func(vs []int64) IVec2 { return IVec2{vs[0], vs[1]} })
	registerIntVector(KindIVec3, chunk.IVec3, chunk.ArrayIVec3, 3,
		func(v IVec3) []int64 { return v[:] },
		func(vs []int64) IVec3 { return IVec3{vs[0], vs[1], vs[2]} })
	registerIntVector(KindIVec4, chunk.IVec4, chunk.ArrayIVec4, 4,
		func(v IVec4) []int64 { return v[:] },
		func(vs []int64) IVec4 { return IVec4{vs[0], vs[1], vs[2], vs[3]} })

	registerUintVector(KindUVec2, chunk.UVec2, chunk.ArrayUVec2, 2,
		func(v UVec2) []uint64 { return v[:] },
		func(vs []uint64) UVec2 { return UVec2{vs[0], vs[1]} })
	registerUintVector(KindUVec3, chunk.UVec3, chunk.ArrayUVec3, 3,
		func(v UVec3) []uint64 { return v[:] },
		func(vs []uint64) UVec3 { return UVec3{vs[0], vs[1], vs[2]} })
	registerUintVector(KindUVec4, chunk.UVec4, chunk.ArrayUVec4, 4,
		func(v UVec4) []uint64 { return v[:] },
		func(vs []uint64) UVec4 { return UVec4{vs[0], vs[1], vs[2], vs[3]} })

	registerFloatVector(KindMat2, chunk.Mat2, chunk.ArrayMat2, 4,
		func(v Mat2) []float64 { return v[:] },
		func(vs []float64) (m Mat2) { copy(m[:], vs); return m })
	registerFloatVector(KindMat3, chunk.Mat3, chunk.ArrayMat3, 9,
		func(v Mat3) []float64 { return v[:] },
		func(vs []float64) (m Mat3) { copy(m[:], vs); return m })
	registerFloatVector(KindMat4, chunk.Mat4, chunk.ArrayMat4, 16,
		func(v Mat4) []float64 { return v[:] },
		func(vs []float64) (m Mat4) { copy(m[:], vs); return m })

	registerFloatVector(KindQuat, chunk.Quat, chunk.ArrayQuat, 4,
		func(v Quat) []float64 { return v[:] },
		func(vs []float64) Quat { return Quat{vs[0], vs[1], vs[2], vs[3]} })

	registerScalar(scalarCodec[[16]byte]{
		kind:                KindUUID,
		writeOne:            func(w *wire.Writer, key string, v [16]byte) error { return w.WriteUUID(key, v) },
		readOne:             func(r *wire.Reader, key string) ([16]byte, error) { return r.ReadUUID(key) },
		writeOptional:       func(w *wire.Writer, key string, v *[16]byte) error { return w.WriteOptionalUUID(key, v) },
		readOptional:        func(r *wire.Reader, key string) (*[16]byte, error) { return r.ReadOptionalUUID(key) },
		writeVector:         func(w *wire.Writer, key string, vs [][16]byte) error { return w.WriteUUIDArray(key, vs) },
		readVector:          func(r *wire.Reader, key string) ([][16]byte, error) { return r.ReadUUIDArray(key) },
		writeOptionalVector: func(w *wire.Writer, key string, vs *[][16]byte) error { return w.WriteOptionalUUIDArray(key, vs) },
		readOptionalVector:  func(r *wire.Reader, key string) (*[][16]byte, error) { return r.ReadOptionalUUIDArray(key) },
	})
}
