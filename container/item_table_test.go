package container

import (
	"testing"

	"pds/streams"
	"pds/validate"
	"pds/wire"
)

type itemTableTestValue struct {
	N uint32
}

var itemTableTestCodec = EntityCodec[itemTableTestValue]{
	WriteInto: func(w *wire.Writer, v itemTableTestValue) error { return w.WriteUInt32("N", v.N) },
	ReadFrom: func(r *wire.Reader) (itemTableTestValue, error) {
		n, err := r.ReadUInt32("N")
		return itemTableTestValue{N: n}, err
	},
	Validate: func(v itemTableTestValue, val *validate.Validator) {
		if v.N == 0 {
			val.ReportError(validate.InvalidValue, "N must be non-zero")
		}
	},
}

func isZeroString(s string) bool { return s == "" }

func TestItemTableSetGet(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{AllowNullValue: true})
	tbl.Set("a", &itemTableTestValue{N: 1})
	tbl.Set("b", nil)
	if v, ok := tbl.Get("a"); !ok || v == nil || v.N != 1 {
		t.Fatalf("Get(a) = (%v, %v)", v, ok)
	}
	if v, ok := tbl.Get("b"); !ok || v != nil {
		t.Fatalf("Get(b) = (%v, %v), want (nil, true)", v, ok)
	}
	if _, ok := tbl.Get("missing"); ok {
		t.Fatal("Get(missing) reported ok=true")
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
}

func TestItemTableSetReplacesExistingSlot(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{})
	tbl.Set("a", &itemTableTestValue{N: 1})
	tbl.Set("a", &itemTableTestValue{N: 2})
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
	v, _ := tbl.Get("a")
	if v.N != 2 {
		t.Fatalf("Get(a).N = %d, want 2", v.N)
	}
}

func TestItemTableClearAndDeepCopy(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{AllowNullValue: true})
	tbl.Set("a", &itemTableTestValue{N: 1})
	tbl.Set("b", nil)

	cp := NewItemTable[string, itemTableTestValue](ItemTableFlags{})
	cp.DeepCopy(tbl)
	if cp.Len() != 2 {
		t.Fatalf("DeepCopy: Len() = %d, want 2", cp.Len())
	}
	if !cp.Flags.AllowNullValue {
		t.Fatal("DeepCopy should also copy Flags")
	}

	tbl.Clear()
	if tbl.Len() != 0 {
		t.Fatal("Clear did not empty the table")
	}
	if cp.Len() != 2 {
		t.Fatal("clearing source should not affect a DeepCopy'd destination")
	}
}

func TestItemTableDeepCopyIsIndependent(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{})
	tbl.Set("a", &itemTableTestValue{N: 1})
	cp := NewItemTable[string, itemTableTestValue](ItemTableFlags{})
	cp.DeepCopy(tbl)

	v, _ := cp.Get("a")
	v.N = 99
	orig, _ := tbl.Get("a")
	if orig.N == 99 {
		t.Fatal("mutating the copy's slot value mutated the source")
	}
}

func TestItemTableValidateRejectsDisallowedNull(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{})
	tbl.Set("a", nil)
	v := validate.New()
	tbl.Validate(v, isZeroString, itemTableTestCodec)
	if !v.HasError(validate.NullNotAllowed) {
		t.Fatal("expected NullNotAllowed for a null slot when AllowNullValue is false")
	}
}

func TestItemTableValidateRejectsZeroKey(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{AllowNullValue: true})
	tbl.Set("", &itemTableTestValue{N: 1})
	v := validate.New()
	tbl.Validate(v, isZeroString, itemTableTestCodec)
	if !v.HasError(validate.NullNotAllowed) {
		t.Fatal("expected NullNotAllowed for a zero key when AllowZeroKeys is false")
	}
}

func TestItemTableValidateRecursesIntoValue(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{})
	tbl.Set("a", &itemTableTestValue{N: 0}) // fails itemTableTestCodec.Validate
	v := validate.New()
	tbl.Validate(v, isZeroString, itemTableTestCodec)
	if !v.HasError(validate.InvalidValue) {
		t.Fatal("expected InvalidValue from the recursive value validator")
	}
}

func TestItemTableWriteReadRoundTrip(t *testing.T) {
	tbl := NewItemTable[string, itemTableTestValue](ItemTableFlags{AllowNullValue: true})
	tbl.Set("a", &itemTableTestValue{N: 10})
	tbl.Set("b", nil)
	tbl.Set("c", &itemTableTestValue{N: 30})

	ws := streams.NewWriteStream(64)
	w := wire.NewWriter(ws)
	if err := tbl.Write(w, "t", StringCodec, itemTableTestCodec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := wire.NewReader(streams.NewReadStream(ws.Bytes()))
	got := NewItemTable[string, itemTableTestValue](ItemTableFlags{AllowNullValue: true})
	if err := got.Read(r, "t", StringCodec, itemTableTestCodec); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", got.Len())
	}
	va, ok := got.Get("a")
	if !ok || va == nil || va.N != 10 {
		t.Fatalf("Get(a) = (%v, %v)", va, ok)
	}
	vb, ok := got.Get("b")
	if !ok || vb != nil {
		t.Fatalf("Get(b) = (%v, %v), want (nil, true)", vb, ok)
	}
	vc, ok := got.Get("c")
	if !ok || vc == nil || vc.N != 30 {
		t.Fatalf("Get(c) = (%v, %v)", vc, ok)
	}
}
