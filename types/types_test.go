package types

import (
	"testing"

	"pds/hashid"
	"pds/ref"
	"pds/status"
	"pds/streams"
	"pds/wire"
)

func roundTrip(t *testing.T, v Varying) Varying {
	t.Helper()
	ws := streams.NewWriteStream(64)
	w := wire.NewWriter(ws)
	if err := v.Write(w, "v"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	r := wire.NewReader(streams.NewReadStream(ws.Bytes()))
	var got Varying
	if err := got.Read(r, "v"); err != nil {
		t.Fatalf("Read: %v", err)
	}
	return got
}

func TestLookupMissReturnsFalse(t *testing.T) {
	if _, ok := Lookup(ElementKind(0xffff), ContainerNone); ok {
		t.Fatal("expected Lookup miss for an unregistered element kind")
	}
}

func TestVaryingScalarRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUInt64, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	v.Payload = uint64(12345)
	got := roundTrip(t, v)
	if got.Element != KindUInt64 || got.Container != ContainerNone {
		t.Fatalf("tag mismatch: %v/%v", got.Element, got.Container)
	}
	if got.Payload.(uint64) != 12345 {
		t.Fatalf("payload = %v, want 12345", got.Payload)
	}
	if !Equals(&v, &got) {
		t.Fatal("Equals() = false for round-tripped value")
	}
}

func TestVaryingStringVectorRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindString, ContainerVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	v.Payload = []string{"a", "bb", "ccc"}
	got := roundTrip(t, v)
	gs := got.Payload.([]string)
	if len(gs) != 3 || gs[0] != "a" || gs[2] != "ccc" {
		t.Fatalf("payload = %v", gs)
	}
}

func TestVaryingOptionalNullRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindFloat64, ContainerOptional); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// payload already a nil *float64 from Allocate
	got := roundTrip(t, v)
	p := got.Payload.(*float64)
	if p != nil {
		t.Fatalf("expected nil optional payload, got %v", *p)
	}
}

func TestVaryingOptionalValueRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindFloat64, ContainerOptional); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	f := 2.75
	v.Payload = &f
	got := roundTrip(t, v)
	p := got.Payload.(*float64)
	if p == nil || *p != 2.75 {
		t.Fatalf("payload = %v, want 2.75", p)
	}
}

func TestVaryingOptionalVectorNullRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUInt64, ContainerOptionalVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// payload already a nil *[]uint64 from Allocate
	got := roundTrip(t, v)
	p := got.Payload.(*[]uint64)
	if p != nil {
		t.Fatalf("expected nil optional-vector payload, got %v", *p)
	}
}

func TestVaryingOptionalVectorValueRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUInt64, ContainerOptionalVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	vs := []uint64{1, 2, 3}
	v.Payload = &vs
	got := roundTrip(t, v)
	p := got.Payload.(*[]uint64)
	if p == nil || len(*p) != 3 || (*p)[2] != 3 {
		t.Fatalf("payload = %v, want [1 2 3]", p)
	}
}

func TestVaryingOptionalVectorEmptyIsNotNil(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUInt64, ContainerOptionalVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	vs := []uint64{}
	v.Payload = &vs
	got := roundTrip(t, v)
	p := got.Payload.(*[]uint64)
	if p == nil {
		t.Fatal("a present-but-empty vector must round-trip as a non-nil pointer")
	}
	if len(*p) != 0 {
		t.Fatalf("payload = %v, want empty", *p)
	}
}

func TestVaryingOptionalIndexedVectorNullRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUInt64, ContainerOptionalIdxVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// payload already a nil *IndexedVectorPayload[uint64] from Allocate
	got := roundTrip(t, v)
	p := got.Payload.(*IndexedVectorPayload[uint64])
	if p != nil {
		t.Fatalf("expected nil optional-indexed-vector payload, got %v", *p)
	}
}

func TestVaryingOptionalIndexedVectorValueRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUInt64, ContainerOptionalIdxVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	payload := IndexedVectorPayload[uint64]{Values: []uint64{10, 20, 30}, Indices: []uint32{2, 0, 1}}
	v.Payload = &payload
	got := roundTrip(t, v)
	p := got.Payload.(*IndexedVectorPayload[uint64])
	if p == nil {
		t.Fatal("expected non-nil optional-indexed-vector payload")
	}
	if len(p.Values) != 3 || p.Values[1] != 20 {
		t.Fatalf("Values = %v", p.Values)
	}
	if len(p.Indices) != 3 || p.Indices[0] != 2 {
		t.Fatalf("Indices = %v", p.Indices)
	}
}

func TestVaryingIndexedVectorRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUInt64, ContainerIndexedVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	v.Payload = IndexedVectorPayload[uint64]{Values: []uint64{10, 20, 30}, Indices: []uint32{2, 0, 1}}
	got := roundTrip(t, v)
	p := got.Payload.(IndexedVectorPayload[uint64])
	if len(p.Values) != 3 || p.Values[1] != 20 {
		t.Fatalf("Values = %v", p.Values)
	}
	if len(p.Indices) != 3 || p.Indices[0] != 2 {
		t.Fatalf("Indices = %v", p.Indices)
	}
}

func TestVaryingHashAndEntityRefRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindHash, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	h := hashid.Sum(hashid.SHA256, []byte("payload"))
	v.Payload = h
	got := roundTrip(t, v)
	if got.Payload.(hashid.Hash) != h {
		t.Fatalf("hash payload mismatch")
	}

	var v2 Varying
	if err := v2.Allocate(KindEntityRef, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	er := ref.EntityRefFromHash(h)
	v2.Payload = er
	got2 := roundTrip(t, v2)
	if !got2.Payload.(ref.EntityRef).Equal(er) {
		t.Fatal("entity_ref payload mismatch")
	}
}

func TestVaryingDeepCopyAndClear(t *testing.T) {
	var src Varying
	if err := src.Allocate(KindUInt64, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	src.Payload = uint64(99)

	var dst Varying
	if err := dst.DeepCopy(&src); err != nil {
		t.Fatalf("DeepCopy: %v", err)
	}
	if !Equals(&src, &dst) {
		t.Fatal("DeepCopy result not Equal to source")
	}

	if err := dst.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if dst.Payload.(uint64) != 0 {
		t.Fatalf("after Clear, payload = %v, want 0", dst.Payload)
	}
	if dst.Element != KindUInt64 {
		t.Fatal("Clear must preserve the tag")
	}
}

func TestVaryingDeepCopyNilClearsDestination(t *testing.T) {
	var dst Varying
	if err := dst.Allocate(KindUInt64, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := dst.DeepCopy(nil); err != nil {
		t.Fatalf("DeepCopy(nil): %v", err)
	}
	if !dst.Uninitialized() {
		t.Fatal("DeepCopy(nil) should leave destination uninitialized")
	}
}

func TestVaryingDeinitialize(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindBool, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	v.Deinitialize()
	if !v.Uninitialized() || v.Element != 0 || v.Container != 0 {
		t.Fatal("Deinitialize did not zero the tag and payload")
	}
}

func TestVaryingWriteUninitializedFails(t *testing.T) {
	var v Varying
	ws := streams.NewWriteStream(16)
	w := wire.NewWriter(ws)
	err := v.Write(w, "v")
	if err == nil {
		t.Fatal("expected error writing an uninitialized Varying")
	}
	if st, ok := err.(*status.Status); ok && st.Code != status.InvalidParam {
		t.Fatalf("code = %v, want InvalidParam", st.Code)
	}
}

func TestVaryingVec3RoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindVec3, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	v.Payload = Vec3{1.5, -2.25, 3}
	got := roundTrip(t, v)
	if got.Payload.(Vec3) != (Vec3{1.5, -2.25, 3}) {
		t.Fatalf("payload = %v", got.Payload)
	}
}

func TestVaryingIVec4VectorRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindIVec4, ContainerVector); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	v.Payload = []IVec4{{1, -2, 3, -4}, {0, 0, 0, 0}}
	got := roundTrip(t, v)
	vs := got.Payload.([]IVec4)
	if len(vs) != 2 || vs[0] != (IVec4{1, -2, 3, -4}) {
		t.Fatalf("payload = %v", vs)
	}
}

func TestVaryingMat4RoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindMat4, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	var m Mat4
	for i := range m {
		m[i] = float64(i)
	}
	v.Payload = m
	got := roundTrip(t, v)
	if got.Payload.(Mat4) != m {
		t.Fatalf("payload = %v, want %v", got.Payload, m)
	}
}

func TestVaryingQuatOptionalRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindQuat, ContainerOptional); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	got := roundTrip(t, v)
	if got.Payload.(*Quat) != nil {
		t.Fatal("expected nil optional quaternion payload")
	}

	q := Quat{0, 0, 0, 1}
	v.Payload = &q
	got = roundTrip(t, v)
	p := got.Payload.(*Quat)
	if p == nil || *p != q {
		t.Fatalf("payload = %v, want %v", p, q)
	}
}

func TestVaryingUUIDRoundTrip(t *testing.T) {
	var v Varying
	if err := v.Allocate(KindUUID, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	id := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	v.Payload = id
	got := roundTrip(t, v)
	if got.Payload.([16]byte) != id {
		t.Fatalf("payload = %v, want %v", got.Payload, id)
	}
}

func TestEqualsUninitializedVsInitialized(t *testing.T) {
	var a Varying
	var b Varying
	if err := b.Allocate(KindBool, ContainerNone); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if Equals(&a, &b) {
		t.Fatal("an uninitialized Varying must not equal an initialized one")
	}
}
