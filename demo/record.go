package demo

import (
	"pds/entitymgr"
	"pds/status"
	"pds/validate"
	"pds/wire"
)

const documentTypeName = "demo.document"

// Record is the entitymgr.PackageRecord for Document, the sole type this
// package contributes to an entity manager's dispatch chain.
type Record struct{}

// New allocates an empty Document if typeName matches, else not_found.
func (Record) New(typeName string) (entitymgr.Entity, error) {
	if typeName != documentTypeName {
		return nil, status.New(status.NotFound, "demo record does not own type %q", typeName)
	}
	return NewDocument(""), nil
}

func (Record) asDocument(e entitymgr.Entity) (*Document, error) {
	d, ok := e.(*Document)
	if !ok {
		return nil, status.New(status.NotFound, "demo record does not own type %q", e.TypeName())
	}
	return d, nil
}

// Write serializes a Document's fields.
func (rec Record) Write(e entitymgr.Entity, w *wire.Writer) error {
	d, err := rec.asDocument(e)
	if err != nil {
		return err
	}
	return d.Write(w)
}

// Read populates a Document's fields.
func (rec Record) Read(e entitymgr.Entity, r *wire.Reader) error {
	d, err := rec.asDocument(e)
	if err != nil {
		return err
	}
	return d.Read(r)
}

// Validate checks a Document's structural invariants.
func (rec Record) Validate(e entitymgr.Entity, v *validate.Validator) error {
	d, err := rec.asDocument(e)
	if err != nil {
		return err
	}
	d.Validate(v)
	return nil
}
