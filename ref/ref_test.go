package ref

import (
	"testing"

	"pds/hashid"
)

func TestEntityRefNullness(t *testing.T) {
	if !NullEntityRef.IsNull() {
		t.Error("NullEntityRef.IsNull() = false")
	}
	if NullEntityRef.Bool() {
		t.Error("NullEntityRef.Bool() = true")
	}
	r := EntityRefFromHash(hashid.Sum(hashid.SHA256, []byte("x")))
	if r.IsNull() {
		t.Error("non-zero hash produced a null EntityRef")
	}
	if !r.Bool() {
		t.Error("non-null EntityRef.Bool() = false")
	}
	if r.String() == "<null>" {
		t.Error("non-null EntityRef printed as <null>")
	}
	if NullEntityRef.String() != "<null>" {
		t.Errorf("NullEntityRef.String() = %q, want <null>", NullEntityRef.String())
	}
}

func TestEntityRefOrdering(t *testing.T) {
	a := EntityRefFromHash(hashid.Zero)
	b := EntityRefFromHash(hashid.Sup)
	if !a.Less(b) {
		t.Error("Zero-backed ref should sort before Sup-backed ref")
	}
	if a.Compare(b) >= 0 {
		t.Error("Compare should be negative")
	}
	if !a.Equal(EntityRefFromHash(hashid.Zero)) {
		t.Error("two refs over the same hash should be Equal")
	}
}

func TestItemRefMintedAreDistinctAndNonNull(t *testing.T) {
	a := MakeItemRef()
	b := MakeItemRef()
	if a.IsNull() || b.IsNull() {
		t.Fatal("MakeItemRef produced a null ref")
	}
	if a.Equal(b) {
		t.Fatal("two independently minted ItemRefs were equal")
	}
}

func TestItemRefNullOrdering(t *testing.T) {
	if !NullItemRef.Less(MakeItemRef()) {
		t.Error("null ItemRef should sort before any minted ref")
	}
	if NullItemRef.Compare(NullItemRef) != 0 {
		t.Error("NullItemRef.Compare(NullItemRef) != 0")
	}
}

func TestItemRefRoundTripViaUUID(t *testing.T) {
	r := MakeItemRef()
	got := ItemRefFromUUID(r.UUID())
	if !got.Equal(r) {
		t.Fatalf("ItemRefFromUUID(r.UUID()) != r")
	}
}
