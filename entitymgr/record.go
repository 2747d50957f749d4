package entitymgr

import (
	"pds/validate"
	"pds/wire"
)

// Entity is a user-defined record serialized atomically and addressed by
// the hash of its serialized form (spec GLOSSARY). The manager only ever
// touches an Entity through the TypeName it reports and the PackageRecord
// that claims it.
type Entity interface {
	TypeName() string
}

// PackageRecord is the collaborator contract that lets the manager
// instantiate and (de)serialize user entity types by name without knowing
// anything about them (spec §4.8). The manager tries each registered
// record in order, treating NotFound as "not my package, keep looking"; if
// every record returns NotFound the operation itself fails NotFound.
type PackageRecord interface {
	// New allocates a zero-valued Entity for typeName, or returns a
	// status.NotFound error if this record does not own that type.
	New(typeName string) (Entity, error)
	// Write serializes e's fields (not its type name — the manager
	// writes that itself) into the section w is currently scoped to.
	// Returns status.NotFound if e does not belong to this record.
	Write(e Entity, w *wire.Writer) error
	// Read populates e's fields by reading from the section r is
	// currently scoped to. Returns status.NotFound if e does not belong
	// to this record.
	Read(e Entity, r *wire.Reader) error
	// Validate checks e's structural invariants, accumulating into v.
	// Returns status.NotFound if e does not belong to this record; a
	// non-nil non-NotFound error means validation itself could not run
	// (e.g. internal corruption), distinct from validation failures,
	// which are reported through v (spec §7).
	Validate(e Entity, v *validate.Validator) error
}
