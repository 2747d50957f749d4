package wire

import (
	"testing"

	"pds/hashid"
	"pds/ref"
	"pds/streams"
)

func TestScalarRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)

	if err := w.WriteBool("b", true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := w.WriteInt64("i", -12345); err != nil {
		t.Fatalf("WriteInt64: %v", err)
	}
	if err := w.WriteUInt16("u16", 0xbeef); err != nil {
		t.Fatalf("WriteUInt16: %v", err)
	}
	if err := w.WriteUInt32("u32", 0xdeadbeef); err != nil {
		t.Fatalf("WriteUInt32: %v", err)
	}
	if err := w.WriteUInt64("u64", 1<<40); err != nil {
		t.Fatalf("WriteUInt64: %v", err)
	}
	if err := w.WriteFloat64("f", 3.5); err != nil {
		t.Fatalf("WriteFloat64: %v", err)
	}
	if err := w.WriteString("s", "hello"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	h := hashid.Sum(hashid.SHA256, []byte("x"))
	if err := w.WriteHash("h", h); err != nil {
		t.Fatalf("WriteHash: %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	if b, err := r.ReadBool("b"); err != nil || !b {
		t.Fatalf("ReadBool = (%v, %v), want (true, nil)", b, err)
	}
	if i, err := r.ReadInt64("i"); err != nil || i != -12345 {
		t.Fatalf("ReadInt64 = (%d, %v), want (-12345, nil)", i, err)
	}
	if u, err := r.ReadUInt16("u16"); err != nil || u != 0xbeef {
		t.Fatalf("ReadUInt16 = (%#x, %v)", u, err)
	}
	if u, err := r.ReadUInt32("u32"); err != nil || u != 0xdeadbeef {
		t.Fatalf("ReadUInt32 = (%#x, %v)", u, err)
	}
	if u, err := r.ReadUInt64("u64"); err != nil || u != 1<<40 {
		t.Fatalf("ReadUInt64 = (%d, %v)", u, err)
	}
	if f, err := r.ReadFloat64("f"); err != nil || f != 3.5 {
		t.Fatalf("ReadFloat64 = (%v, %v)", f, err)
	}
	if s, err := r.ReadString("s"); err != nil || s != "hello" {
		t.Fatalf("ReadString = (%q, %v)", s, err)
	}
	if got, err := r.ReadHash("h"); err != nil || got != h {
		t.Fatalf("ReadHash = (%s, %v), want %s", got, err, h)
	}
}

func TestOptionalUInt64NullAndValue(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.WriteOptionalUInt64("a", nil); err != nil {
		t.Fatalf("WriteOptionalUInt64(nil): %v", err)
	}
	v := uint64(42)
	if err := w.WriteOptionalUInt64("b", &v); err != nil {
		t.Fatalf("WriteOptionalUInt64(&v): %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadOptionalUInt64("a")
	if err != nil || got != nil {
		t.Fatalf("ReadOptionalUInt64(a) = (%v, %v), want (nil, nil)", got, err)
	}
	got2, err := r.ReadOptionalUInt64("b")
	if err != nil || got2 == nil || *got2 != 42 {
		t.Fatalf("ReadOptionalUInt64(b) = (%v, %v), want (42, nil)", got2, err)
	}
}

func TestOptionalStringNullAndValue(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.WriteOptionalString("a", nil); err != nil {
		t.Fatalf("WriteOptionalString(nil): %v", err)
	}
	s := "present"
	if err := w.WriteOptionalString("b", &s); err != nil {
		t.Fatalf("WriteOptionalString(&s): %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.ReadOptionalString("a")
	if err != nil || got != nil {
		t.Fatalf("ReadOptionalString(a) = (%v, %v), want (nil, nil)", got, err)
	}
	got2, err := r.ReadOptionalString("b")
	if err != nil || got2 == nil || *got2 != "present" {
		t.Fatalf("ReadOptionalString(b) = (%v, %v), want (present, nil)", got2, err)
	}
}

func TestOptionalEntityRefAndItemRef(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	er := ref.EntityRefFromHash(hashid.Sum(hashid.SHA256, []byte("e")))
	if err := w.WriteOptionalEntityRef("er", nil); err != nil {
		t.Fatalf("WriteOptionalEntityRef(nil): %v", err)
	}
	if err := w.WriteOptionalEntityRef("er2", &er); err != nil {
		t.Fatalf("WriteOptionalEntityRef(&er): %v", err)
	}
	ir := ref.MakeItemRef()
	if err := w.WriteOptionalItemRef("ir", nil); err != nil {
		t.Fatalf("WriteOptionalItemRef(nil): %v", err)
	}
	if err := w.WriteOptionalItemRef("ir2", &ir); err != nil {
		t.Fatalf("WriteOptionalItemRef(&ir): %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	if got, err := r.ReadOptionalEntityRef("er"); err != nil || got != nil {
		t.Fatalf("ReadOptionalEntityRef(er) = (%v, %v), want (nil, nil)", got, err)
	}
	got2, err := r.ReadOptionalEntityRef("er2")
	if err != nil || got2 == nil || !got2.Equal(er) {
		t.Fatalf("ReadOptionalEntityRef(er2) = (%v, %v), want %s", got2, err, er)
	}
	if got, err := r.ReadOptionalItemRef("ir"); err != nil || got != nil {
		t.Fatalf("ReadOptionalItemRef(ir) = (%v, %v), want (nil, nil)", got, err)
	}
	got3, err := r.ReadOptionalItemRef("ir2")
	if err != nil || got3 == nil || !got3.Equal(ir) {
		t.Fatalf("ReadOptionalItemRef(ir2) = (%v, %v), want %s", got3, err, ir)
	}
}

// TestNestedSections reproduces spec scenario S3's overall shape: an outer
// section containing a string field and a nested inner section containing
// a single u32 field.
func TestNestedSections(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)

	outer, err := w.BeginWriteSection("outer")
	if err != nil {
		t.Fatalf("BeginWriteSection(outer): %v", err)
	}
	if err := outer.WriteString("name", "abc"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	inner, err := outer.BeginWriteSection("inner")
	if err != nil {
		t.Fatalf("BeginWriteSection(inner): %v", err)
	}
	if err := inner.WriteUInt32("n", 7); err != nil {
		t.Fatalf("WriteUInt32: %v", err)
	}
	if err := outer.EndWriteSection(inner); err != nil {
		t.Fatalf("EndWriteSection(inner): %v", err)
	}
	if err := w.EndWriteSection(outer); err != nil {
		t.Fatalf("EndWriteSection(outer): %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	outerR, err := r.BeginReadSection("outer", false)
	if err != nil {
		t.Fatalf("BeginReadSection(outer): %v", err)
	}
	if s, err := outerR.ReadString("name"); err != nil || s != "abc" {
		t.Fatalf("ReadString = (%q, %v)", s, err)
	}
	innerR, err := outerR.BeginReadSection("inner", false)
	if err != nil {
		t.Fatalf("BeginReadSection(inner): %v", err)
	}
	if n, err := innerR.ReadUInt32("n"); err != nil || n != 7 {
		t.Fatalf("ReadUInt32 = (%d, %v)", n, err)
	}
	if err := outerR.EndReadSection(innerR); err != nil {
		t.Fatalf("EndReadSection(inner): %v", err)
	}
	if err := r.EndReadSection(outerR); err != nil {
		t.Fatalf("EndReadSection(outer): %v", err)
	}
}

func TestSectionsArrayRoundTrip(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.BeginWriteSectionsArray("items", 3, nil); err != nil {
		t.Fatalf("BeginWriteSectionsArray: %v", err)
	}
	for i := uint64(0); i < 3; i++ {
		elem, err := w.BeginWriteSectionInArray(i)
		if err != nil {
			t.Fatalf("BeginWriteSectionInArray(%d): %v", i, err)
		}
		if err := elem.WriteUInt32("v", uint32(i*10)); err != nil {
			t.Fatalf("WriteUInt32: %v", err)
		}
		if err := w.EndWriteSectionInArray(elem); err != nil {
			t.Fatalf("EndWriteSectionInArray(%d): %v", i, err)
		}
	}
	if err := w.EndWriteSectionsArray(); err != nil {
		t.Fatalf("EndWriteSectionsArray: %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	count, err := r.BeginReadSectionsArray("items", nil)
	if err != nil {
		t.Fatalf("BeginReadSectionsArray: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	for i := uint64(0); i < count; i++ {
		var hasData bool
		elem, err := r.BeginReadSectionInArray(i, &hasData)
		if err != nil {
			t.Fatalf("BeginReadSectionInArray(%d): %v", i, err)
		}
		if !hasData {
			t.Fatalf("element %d unexpectedly absent", i)
		}
		v, err := elem.ReadUInt32("v")
		if err != nil || v != uint32(i*10) {
			t.Fatalf("element %d: ReadUInt32 = (%d, %v), want %d", i, v, err, i*10)
		}
		if err := r.EndReadSectionInArray(elem); err != nil {
			t.Fatalf("EndReadSectionInArray(%d): %v", i, err)
		}
	}
	if err := r.EndReadSectionsArray(); err != nil {
		t.Fatalf("EndReadSectionsArray: %v", err)
	}
}

func TestSectionsArrayAbsentElement(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.BeginWriteSectionsArray("items", 2, nil); err != nil {
		t.Fatalf("BeginWriteSectionsArray: %v", err)
	}
	elem0, err := w.BeginWriteSectionInArray(0)
	if err != nil {
		t.Fatalf("BeginWriteSectionInArray(0): %v", err)
	}
	if err := w.EndWriteSectionInArray(elem0); err != nil {
		t.Fatalf("EndWriteSectionInArray(0): %v", err)
	}
	elem1, err := w.BeginWriteSectionInArray(1)
	if err != nil {
		t.Fatalf("BeginWriteSectionInArray(1): %v", err)
	}
	if err := elem1.WriteUInt32("v", 99); err != nil {
		t.Fatalf("WriteUInt32: %v", err)
	}
	if err := w.EndWriteSectionInArray(elem1); err != nil {
		t.Fatalf("EndWriteSectionInArray(1): %v", err)
	}
	if err := w.EndWriteSectionsArray(); err != nil {
		t.Fatalf("EndWriteSectionsArray: %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	if _, err := r.BeginReadSectionsArray("items", nil); err != nil {
		t.Fatalf("BeginReadSectionsArray: %v", err)
	}
	var hasData bool
	elem, err := r.BeginReadSectionInArray(0, &hasData)
	if err != nil {
		t.Fatalf("BeginReadSectionInArray(0): %v", err)
	}
	if hasData || elem != nil {
		t.Fatalf("element 0 should be absent: hasData=%v elem=%v", hasData, elem)
	}
	if err := r.EndReadSectionInArray(elem); err != nil {
		t.Fatalf("EndReadSectionInArray(0): %v", err)
	}
	elem1, err := r.BeginReadSectionInArray(1, &hasData)
	if err != nil {
		t.Fatalf("BeginReadSectionInArray(1): %v", err)
	}
	if !hasData {
		t.Fatal("element 1 should be present")
	}
	if v, err := elem1.ReadUInt32("v"); err != nil || v != 99 {
		t.Fatalf("ReadUInt32 = (%d, %v)", v, err)
	}
	if err := r.EndReadSectionInArray(elem1); err != nil {
		t.Fatalf("EndReadSectionInArray(1): %v", err)
	}
	if err := r.EndReadSectionsArray(); err != nil {
		t.Fatalf("EndReadSectionsArray: %v", err)
	}
}

// TestArrayIndexMustBeMonotonic checks the state machine rejects
// out-of-order or skipped element indices (spec's array-index discipline
// testable property).
func TestArrayIndexMustBeMonotonic(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	if err := w.BeginWriteSectionsArray("items", 2, nil); err != nil {
		t.Fatalf("BeginWriteSectionsArray: %v", err)
	}
	if _, err := w.BeginWriteSectionInArray(1); err == nil {
		t.Fatal("expected error starting at index 1 when 0 is next")
	}
}

func TestEmptySectionRequiresNullAllowed(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	child, err := w.BeginWriteSection("s")
	if err != nil {
		t.Fatalf("BeginWriteSection: %v", err)
	}
	if err := w.EndWriteSection(child); err != nil {
		t.Fatalf("EndWriteSection: %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	if _, err := r.BeginReadSection("s", false); err == nil {
		t.Fatal("expected error reading empty section with nullSectionIsAllowed=false")
	}
}

func TestEmptySectionAllowed(t *testing.T) {
	ws := streams.NewWriteStream(64)
	w := NewWriter(ws)
	child, err := w.BeginWriteSection("s")
	if err != nil {
		t.Fatalf("BeginWriteSection: %v", err)
	}
	if err := w.EndWriteSection(child); err != nil {
		t.Fatalf("EndWriteSection: %v", err)
	}

	r := NewReader(streams.NewReadStream(ws.Bytes()))
	got, err := r.BeginReadSection("s", true)
	if err != nil {
		t.Fatalf("BeginReadSection: %v", err)
	}
	if got != nil {
		t.Fatal("expected a nil child reader for an allowed-empty section")
	}
}
