package container

import (
	"testing"

	"pds/status"
	"pds/streams"
	"pds/validate"
	"pds/wire"
)

func TestIndexedVectorAt(t *testing.T) {
	iv := &IndexedVector[string]{Values: []string{"a", "b", "c"}, Indices: []uint32{2, 0, 1}}
	v, err := iv.At(0)
	if err != nil || v != "c" {
		t.Fatalf("At(0) = (%q, %v), want (c, nil)", v, err)
	}
	v, err = iv.At(2)
	if err != nil || v != "b" {
		t.Fatalf("At(2) = (%q, %v), want (b, nil)", v, err)
	}
}

func TestIndexedVectorAtOutOfRangePosition(t *testing.T) {
	iv := &IndexedVector[string]{Values: []string{"a"}, Indices: []uint32{0}}
	if _, err := iv.At(5); err == nil {
		t.Fatal("expected error for an out-of-range position")
	}
}

func TestIndexedVectorValidateDetectsOutOfRangeIndex(t *testing.T) {
	iv := &IndexedVector[string]{Values: []string{"a", "b"}, Indices: []uint32{0, 5}}
	v := validate.New()
	iv.Validate(v)
	if !v.HasError(validate.InvalidValue) {
		t.Fatal("expected InvalidValue for an index beyond len(Values)")
	}
}

func TestIndexedVectorValidateCleanVector(t *testing.T) {
	iv := &IndexedVector[string]{Values: []string{"a", "b"}, Indices: []uint32{0, 1, 0}}
	v := validate.New()
	iv.Validate(v)
	if v.GetErrorCount() != 0 {
		t.Fatalf("GetErrorCount() = %d, want 0", v.GetErrorCount())
	}
}

func TestIndexedVectorAtOutOfRangeValue(t *testing.T) {
	iv := &IndexedVector[string]{Values: []string{"a"}, Indices: []uint32{9}}
	_, err := iv.At(0)
	if err == nil {
		t.Fatal("expected error for an index pointing past Values")
	}
	if st, ok := err.(*status.Status); ok && st.Code != status.Invalid {
		t.Fatalf("code = %v, want Invalid", st.Code)
	}
}

func TestIndexedVectorClearAndDeepCopy(t *testing.T) {
	iv := &IndexedVector[string]{Values: []string{"a", "b"}, Indices: []uint32{1, 0}}
	cp := &IndexedVector[string]{}
	cp.DeepCopy(iv)
	if len(cp.Values) != 2 || len(cp.Indices) != 2 {
		t.Fatalf("DeepCopy result = %+v", cp)
	}
	iv.Clear()
	if len(iv.Values) != 0 || len(iv.Indices) != 0 {
		t.Fatal("Clear did not empty the vector")
	}
	if len(cp.Values) != 2 {
		t.Fatal("clearing the source should not affect a DeepCopy'd destination")
	}
}

func TestIndexedVectorDeepCopyNilClears(t *testing.T) {
	cp := &IndexedVector[string]{Values: []string{"a"}, Indices: []uint32{0}}
	cp.DeepCopy(nil)
	if len(cp.Values) != 0 || len(cp.Indices) != 0 {
		t.Fatal("DeepCopy(nil) should clear the destination")
	}
}

func TestIndexedVectorWriteReadRoundTrip(t *testing.T) {
	iv := &IndexedVector[string]{Values: []string{"x", "y", "z"}, Indices: []uint32{2, 1, 0}}
	ws := streams.NewWriteStream(64)
	w := wire.NewWriter(ws)
	if err := iv.Write(w, "iv", StringCodec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := wire.NewReader(streams.NewReadStream(ws.Bytes()))
	got := &IndexedVector[string]{}
	if err := got.Read(r, "iv", StringCodec); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Values) != 3 || got.Values[2] != "z" {
		t.Fatalf("Values = %v", got.Values)
	}
	if len(got.Indices) != 3 || got.Indices[0] != 2 {
		t.Fatalf("Indices = %v", got.Indices)
	}
}
