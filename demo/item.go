// Package demo is a worked example of a pds entity type, exercising
// Varying, every composite container and the entity manager end to end.
// It is not part of the core framework; treat it as the "hello world"
// a consumer of this module would read first.
package demo

import (
	"pds/types"
	"pds/validate"
	"pds/wire"
)

// Item is one node of a Document: a name plus an arbitrary dynamic value.
// Value typically carries a ContainerNone or ContainerVector payload for
// one of the element kinds types.registerScalar wires up (spec §3, §4.5).
type Item struct {
	Name  string
	Value types.Varying
}

const itemNameKey = "Name"
const itemValueKey = "Value"

// WriteItem serializes i's fields directly into w's current section, the
// shape EntityCodec.WriteInto expects.
func WriteItem(w *wire.Writer, i Item) error {
	if err := w.WriteString(itemNameKey, i.Name); err != nil {
		return err
	}
	return i.Value.Write(w, itemValueKey)
}

// ReadItem reconstructs an Item from r's current section.
func ReadItem(r *wire.Reader) (Item, error) {
	var i Item
	name, err := r.ReadString(itemNameKey)
	if err != nil {
		return Item{}, err
	}
	i.Name = name
	if err := i.Value.Read(r, itemValueKey); err != nil {
		return Item{}, err
	}
	return i, nil
}

// ValidateItem checks i's structural invariants: a non-empty name and,
// transitively, whatever Varying.Read/Write already enforced on Value.
func ValidateItem(i Item, v *validate.Validator) {
	if i.Name == "" {
		v.ReportError(validate.NullNotAllowed, "item name must not be empty")
	}
}
