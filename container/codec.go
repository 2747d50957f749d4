// Package container implements the four composite container types of
// §4.5: BidirectionalMap, DirectedGraph, IndexedVector and ItemTable. Each
// exposes Clear, DeepCopy, Write, Read and Validate; only BidirectionalMap
// and DirectedGraph also have a package-level equality function
// (BidirectionalMapEquals, DirectedGraphEquals), and IndexedVector and
// ItemTable have none. In the original C++ source
// these are generated per instantiation by an external code generator. In
// Go, the same generality is expressed directly with generics plus a small
// Codec[T] interface describing how to move one T on and off the wire —
// one concrete codec value replaces one generated translation unit.
package container

import (
	"pds/ref"
	"pds/wire"
)

// Codec describes how to serialize a single comparable value type T as
// both a scalar field and a homogeneous vector, the two shapes every
// container needs for its key/value/node sequences.
type Codec[T comparable] struct {
	Zero        T
	Less        func(a, b T) bool
	WriteVector func(w *wire.Writer, key string, vs []T) error
	ReadVector  func(r *wire.Reader, key string) ([]T, error)
}

// StringCodec serializes string-typed container elements.
var StringCodec = Codec[string]{
	Less:        func(a, b string) bool { return a < b },
	WriteVector: func(w *wire.Writer, key string, vs []string) error { return w.WriteStringArray(key, vs) },
	ReadVector:  func(r *wire.Reader, key string) ([]string, error) { return r.ReadStringArray(key) },
}

// UInt32Codec serializes uint32-typed container elements (e.g. node IDs,
// indexed-vector indices treated as first-class node values).
var UInt32Codec = Codec[uint32]{
	Less: func(a, b uint32) bool { return a < b },
	WriteVector: func(w *wire.Writer, key string, vs []uint32) error {
		return w.WriteUInt32Array(key, vs)
	},
	ReadVector: func(r *wire.Reader, key string) ([]uint32, error) { return r.ReadUInt32Array(key) },
}

// ItemRefCodec serializes item_ref-typed container elements: the common
// case for DirectedGraph nodes and ItemTable keys, since item_ref is the
// framework's own "pointer to another element in this graph" value.
var ItemRefCodec = Codec[ref.ItemRef]{
	Zero:        ref.NullItemRef,
	Less:        func(a, b ref.ItemRef) bool { return a.Less(b) },
	WriteVector: func(w *wire.Writer, key string, vs []ref.ItemRef) error { return w.WriteItemRefArray(key, vs) },
	ReadVector:  func(r *wire.Reader, key string) ([]ref.ItemRef, error) { return r.ReadItemRefArray(key) },
}

// EntityRefCodec serializes entity_ref-typed container elements.
var EntityRefCodec = Codec[ref.EntityRef]{
	Zero:        ref.NullEntityRef,
	Less:        func(a, b ref.EntityRef) bool { return a.Less(b) },
	WriteVector: func(w *wire.Writer, key string, vs []ref.EntityRef) error { return w.WriteEntityRefArray(key, vs) },
	ReadVector:  func(r *wire.Reader, key string) ([]ref.EntityRef, error) { return r.ReadEntityRefArray(key) },
}
