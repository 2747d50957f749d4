package types

import (
	"pds/status"
	"pds/wire"
)

// varyingElTyKey and varyingCnTyKey are the two small-chunk header fields
// every Varying value writes before its Data chunk (spec §4.5).
const (
	varyingElTyKey = "ElTy"
	varyingCnTyKey = "CnTy"
	varyingDataKey = "Data"
)

// Varying is a runtime-typed value carrier: a tagged union over the closed
// (element kind, container kind) space, holding at most one payload at a
// time. The zero Varying is uninitialized: ElementKind/ContainerKind are
// both zero and Payload is nil. Initialized and non-nil payload are kept in
// lockstep by every method on this type.
type Varying struct {
	Element   ElementKind
	Container ContainerKind
	Payload   any
}

// Uninitialized reports whether v has never been allocated.
func (v *Varying) Uninitialized() bool { return v.Payload == nil }

// Allocate sets v's tag to (element, container) and allocates a fresh
// zero-valued payload for it, discarding any previous payload. Returns
// invalid_param if the combination has no dispatch entry.
func (v *Varying) Allocate(element ElementKind, container ContainerKind) error {
	ops, ok := Lookup(element, container)
	if !ok {
		return invalidParam(element, container)
	}
	v.Element = element
	v.Container = container
	v.Payload = ops.Allocate()
	return nil
}

// Clear resets v's payload to its zero value but preserves its tag, per
// the invariant "clearing preserves tag; deinitializing zeros tag."
func (v *Varying) Clear() error {
	if v.Uninitialized() {
		return status.New(status.Corrupted, "Clear: Varying is uninitialized")
	}
	ops, ok := Lookup(v.Element, v.Container)
	if !ok {
		return invalidParam(v.Element, v.Container)
	}
	v.Payload = ops.Clear(v.Payload)
	return nil
}

// Deinitialize releases v's payload via the dispatch table and zeros its
// tag, returning it to the uninitialized state.
func (v *Varying) Deinitialize() {
	if !v.Uninitialized() {
		if ops, ok := Lookup(v.Element, v.Container); ok {
			ops.Destroy(v.Payload)
		}
	}
	v.Element = 0
	v.Container = 0
	v.Payload = nil
}

// DeepCopy overwrites v with an independent copy of src. A nil src clears
// v to the uninitialized state, mirroring the composite-container
// DeepCopy contract (spec §4.5: "null source clears destination").
func (v *Varying) DeepCopy(src *Varying) error {
	if src == nil || src.Uninitialized() {
		v.Deinitialize()
		return nil
	}
	ops, ok := Lookup(src.Element, src.Container)
	if !ok {
		return invalidParam(src.Element, src.Container)
	}
	v.Element = src.Element
	v.Container = src.Container
	v.Payload = ops.Copy(src.Payload)
	return nil
}

// Equals reports whether a and b hold the same tag and equal payload.
// Pointer-identical (including both nil) is true; exactly one nil is
// false, matching the composite-container Equals contract.
func Equals(a, b *Varying) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Uninitialized() || b.Uninitialized() {
		return a.Uninitialized() == b.Uninitialized()
	}
	if a.Element != b.Element || a.Container != b.Container {
		return false
	}
	ops, ok := Lookup(a.Element, a.Container)
	if !ok {
		return false
	}
	return ops.Equals(a.Payload, b.Payload)
}

// Write emits v under key: two small header chunks (ElTy, CnTy) followed
// by a Data chunk dispatched through the table. Writing an uninitialized
// Varying is a programming error (spec §4.5: "use optional-wrapped Varying
// if optionality is required").
func (v *Varying) Write(w *wire.Writer, key string) error {
	if v.Uninitialized() {
		return status.New(status.InvalidParam, "key %q: cannot write an uninitialized Varying", key)
	}
	ops, ok := Lookup(v.Element, v.Container)
	if !ok {
		return invalidParam(v.Element, v.Container)
	}
	child, err := w.BeginWriteSection(key)
	if err != nil {
		return err
	}
	if err := child.WriteUInt16(varyingElTyKey, uint16(v.Element)); err != nil {
		return err
	}
	if err := child.WriteUInt16(varyingCnTyKey, uint16(v.Container)); err != nil {
		return err
	}
	if err := ops.Write(child, varyingDataKey, v.Payload); err != nil {
		return err
	}
	return w.EndWriteSection(child)
}

// Read reconstructs v from key, first reading the ElTy/CnTy header to
// determine which table entry dispatches the Data chunk.
func (v *Varying) Read(r *wire.Reader, key string) error {
	child, err := r.BeginReadSection(key, false)
	if err != nil {
		return err
	}
	elRaw, err := child.ReadUInt16(varyingElTyKey)
	if err != nil {
		return err
	}
	cnRaw, err := child.ReadUInt16(varyingCnTyKey)
	if err != nil {
		return err
	}
	element, container := ElementKind(elRaw), ContainerKind(cnRaw)
	ops, ok := Lookup(element, container)
	if !ok {
		return invalidParam(element, container)
	}
	payload, err := ops.Read(child, varyingDataKey)
	if err != nil {
		return err
	}
	if err := r.EndReadSection(child); err != nil {
		return err
	}
	v.Element = element
	v.Container = container
	v.Payload = payload
	return nil
}
