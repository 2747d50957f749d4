package streams

import "testing"

func TestWriteStreamBasic(t *testing.T) {
	w := NewWriteStream(16)
	w.WriteByte(0xAB)
	w.WriteUint16(0x1234)
	w.WriteUint32(0xdeadbeef)
	w.WriteUint64(0x0102030405060708)
	w.WriteBytes([]byte{1, 2, 3})

	got := w.Bytes()
	want := []byte{
		0xAB,
		0x34, 0x12,
		0xef, 0xbe, 0xad, 0xde,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		1, 2, 3,
	}
	if len(got) != len(want) {
		t.Fatalf("len(Bytes()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestWriteStreamOverwrite(t *testing.T) {
	w := NewWriteStream(16)
	pos := w.Position()
	w.WriteUint64(0)
	w.WriteByte(0xff)
	w.OverwriteUint64At(pos, 0x0807060504030201)
	got := w.Bytes()[:8]
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("overwritten byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestReadStreamRoundTrip(t *testing.T) {
	w := NewWriteStream(16)
	w.WriteByte(7)
	w.WriteUint16(1000)
	w.WriteUint32(70000)
	w.WriteUint64(5000000000)

	r := NewReadStream(w.Bytes())
	if b, ok := r.ReadByte(); !ok || b != 7 {
		t.Fatalf("ReadByte = (%d, %v), want (7, true)", b, ok)
	}
	if v, ok := r.ReadUint16(); !ok || v != 1000 {
		t.Fatalf("ReadUint16 = (%d, %v), want (1000, true)", v, ok)
	}
	if v, ok := r.ReadUint32(); !ok || v != 70000 {
		t.Fatalf("ReadUint32 = (%d, %v), want (70000, true)", v, ok)
	}
	if v, ok := r.ReadUint64(); !ok || v != 5000000000 {
		t.Fatalf("ReadUint64 = (%d, %v), want (5000000000, true)", v, ok)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReadStreamEOF(t *testing.T) {
	r := NewReadStream([]byte{1, 2})
	if _, ok := r.ReadUint32(); ok {
		t.Fatal("ReadUint32 on a 2-byte stream should fail")
	}
}

func TestSetPosition(t *testing.T) {
	w := NewWriteStream(16)
	w.WriteUint32(1)
	w.WriteUint32(2)
	w.SetPosition(0)
	w.WriteUint32(3)
	r := NewReadStream(w.Bytes())
	v, _ := r.ReadUint32()
	if v != 3 {
		t.Fatalf("after SetPosition(0) and overwrite, first uint32 = %d, want 3", v)
	}
}

func TestBitsForCount(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 1, 7: 1, 8: 1, 9: 2, 16: 2, 17: 3}
	for count, want := range cases {
		if got := BitsForCount(count); got != want {
			t.Errorf("BitsForCount(%d) = %d, want %d", count, got, want)
		}
	}
}

func TestPopCountBytes(t *testing.T) {
	if got := PopCountBytes([]byte{0xff, 0x00, 0x0f}); got != 12 {
		t.Fatalf("PopCountBytes = %d, want 12", got)
	}
}
