package wire

import (
	"testing"

	"pds/chunk"
	"pds/streams"
)

func TestFixedFloatVectorRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.WriteFixedFloatVector(chunk.Vec3, "v", []float64{1, -2.5, 3}); err != nil {
		t.Fatalf("WriteFixedFloatVector: %v", err)
	}
	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadFixedFloatVector(chunk.Vec3, "v", 3)
	if err != nil {
		t.Fatalf("ReadFixedFloatVector: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != -2.5 || got[2] != 3 {
		t.Fatalf("got = %v, want [1 -2.5 3]", got)
	}
}

func TestFixedIntVectorRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.WriteFixedIntVector(chunk.IVec2, "v", []int64{-7, 9}); err != nil {
		t.Fatalf("WriteFixedIntVector: %v", err)
	}
	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadFixedIntVector(chunk.IVec2, "v", 2)
	if err != nil {
		t.Fatalf("ReadFixedIntVector: %v", err)
	}
	if len(got) != 2 || got[0] != -7 || got[1] != 9 {
		t.Fatalf("got = %v, want [-7 9]", got)
	}
}

func TestFixedUintVectorOptionalNullRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.WriteOptionalFixedUintVector(chunk.UVec4, "v", nil); err != nil {
		t.Fatalf("WriteOptionalFixedUintVector(nil): %v", err)
	}
	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadOptionalFixedUintVector(chunk.UVec4, "v", 4)
	if err != nil {
		t.Fatalf("ReadOptionalFixedUintVector: %v", err)
	}
	if got != nil {
		t.Fatalf("got = %v, want nil", *got)
	}
}

func TestFixedUintVectorOptionalValueRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	vs := []uint64{1, 2, 3, 4}
	if err := w.WriteOptionalFixedUintVector(chunk.UVec4, "v", &vs); err != nil {
		t.Fatalf("WriteOptionalFixedUintVector: %v", err)
	}
	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadOptionalFixedUintVector(chunk.UVec4, "v", 4)
	if err != nil {
		t.Fatalf("ReadOptionalFixedUintVector: %v", err)
	}
	if got == nil || len(*got) != 4 || (*got)[3] != 4 {
		t.Fatalf("got = %v, want [1 2 3 4]", got)
	}
}

func TestFixedFloatVectorArrayRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	mats := [][]float64{
		{1, 0, 0, 1},
		{2, 0, 0, 2},
	}
	if err := w.WriteFixedFloatVectorArray(chunk.ArrayMat2, "m", 4, mats); err != nil {
		t.Fatalf("WriteFixedFloatVectorArray: %v", err)
	}
	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadFixedFloatVectorArray(chunk.ArrayMat2, "m", 4)
	if err != nil {
		t.Fatalf("ReadFixedFloatVectorArray: %v", err)
	}
	if len(got) != 2 || got[1][3] != 2 {
		t.Fatalf("got = %v", got)
	}
}

func TestFixedFloatVectorArrayOptionalNullRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.WriteOptionalFixedFloatVectorArray(chunk.ArrayVec3, "v", 3, nil); err != nil {
		t.Fatalf("WriteOptionalFixedFloatVectorArray(nil): %v", err)
	}
	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadOptionalFixedFloatVectorArray(chunk.ArrayVec3, "v", 3)
	if err != nil {
		t.Fatalf("ReadOptionalFixedFloatVectorArray: %v", err)
	}
	if got != nil {
		t.Fatalf("got = %v, want nil", *got)
	}
}
