// Package ref implements the two external reference value types: entity_ref
// (hash-valued, points at a stored entity file) and item_ref (UUID-valued,
// points at an element within the same entity graph). Both behave like
// pointers: the zero value is null and converts to false in boolean context,
// and both have a strict total order for set membership and range queries
// (spec §3, §6).
package ref

import (
	"github.com/google/uuid"

	"pds/hashid"
)

// EntityRef references another entity by the content-addressing hash of its
// serialized form. The zero value is null.
type EntityRef struct {
	hash hashid.Hash
}

// EntityRefFromHash wraps an existing digest in an EntityRef.
func EntityRefFromHash(h hashid.Hash) EntityRef { return EntityRef{hash: h} }

// NullEntityRef is the null EntityRef value.
var NullEntityRef = EntityRef{}

// Hash returns the underlying digest.
func (r EntityRef) Hash() hashid.Hash { return r.hash }

// IsNull reports whether r is the null reference.
func (r EntityRef) IsNull() bool { return r.hash.IsZero() }

// Bool reports whether r is non-null, mirroring the source's "acts like a
// pointer" boolean conversion.
func (r EntityRef) Bool() bool { return !r.IsNull() }

// Equal reports whether r and other reference the same hash.
func (r EntityRef) Equal(other EntityRef) bool { return r.hash == other.hash }

// Less gives EntityRef a strict total order; the null value sorts first.
func (r EntityRef) Less(other EntityRef) bool { return r.hash.Less(other.hash) }

// Compare returns -1, 0 or 1, as hashid.Hash.Compare.
func (r EntityRef) Compare(other EntityRef) int { return r.hash.Compare(other.hash) }

// String returns the hex digest, or "<null>" for the null reference.
func (r EntityRef) String() string {
	if r.IsNull() {
		return "<null>"
	}
	return r.hash.String()
}

// ItemRef references an element within the entity currently being built or
// read. Fresh values are minted only by MakeItemRef, which generates a new
// UUID; ItemRefFromUUID wraps an existing UUID without generating one.
type ItemRef struct {
	id uuid.UUID
}

// NullItemRef is the null ItemRef value.
var NullItemRef = ItemRef{}

// MakeItemRef mints a new ItemRef with a fresh random UUID. It is the only
// function in this package that generates a new UUID.
func MakeItemRef() ItemRef { return ItemRef{id: uuid.New()} }

// ItemRefFromUUID wraps an existing UUID, used internally by the wire reader
// when reconstructing references it previously wrote.
func ItemRefFromUUID(id uuid.UUID) ItemRef { return ItemRef{id: id} }

// UUID returns the underlying identifier.
func (r ItemRef) UUID() uuid.UUID { return r.id }

// IsNull reports whether r is the null reference.
func (r ItemRef) IsNull() bool { return r.id == uuid.Nil }

// Bool reports whether r is non-null.
func (r ItemRef) Bool() bool { return !r.IsNull() }

// Equal reports whether r and other hold the same UUID.
func (r ItemRef) Equal(other ItemRef) bool { return r.id == other.id }

// Less gives ItemRef a strict total order; the null value sorts first.
func (r ItemRef) Less(other ItemRef) bool {
	for i := range r.id {
		if r.id[i] != other.id[i] {
			return r.id[i] < other.id[i]
		}
	}
	return false
}

// Compare returns -1, 0 or 1.
func (r ItemRef) Compare(other ItemRef) int {
	if r.Equal(other) {
		return 0
	}
	if r.Less(other) {
		return -1
	}
	return 1
}

// String returns the canonical UUID string, or "<null>" for the null
// reference.
func (r ItemRef) String() string {
	if r.IsNull() {
		return "<null>"
	}
	return r.id.String()
}
