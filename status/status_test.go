package status

import "testing"

func TestNewAndError(t *testing.T) {
	err := New(CantRead, "reading %q", "foo.dat")
	if err.Code != CantRead {
		t.Fatalf("Code = %v, want %v", err.Code, CantRead)
	}
	if got, want := err.Error(), `cant_read: reading "foo.dat"`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestNewNoMessage(t *testing.T) {
	err := New(NotFound, "")
	if got, want := err.Error(), "not_found"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	err := New(Corrupted, "bad file")
	if !Is(err, Corrupted) {
		t.Error("Is(err, Corrupted) = false, want true")
	}
	if Is(err, CantRead) {
		t.Error("Is(err, CantRead) = true, want false")
	}
	if !Is(nil, OK) {
		t.Error("Is(nil, OK) = false, want true")
	}
	if Is(nil, CantRead) {
		t.Error("Is(nil, CantRead) = true, want false")
	}
}

func TestOk(t *testing.T) {
	if !Ok(nil) {
		t.Error("Ok(nil) = false, want true")
	}
	if Ok(New(CantWrite, "x")) {
		t.Error("Ok(err) = true, want false")
	}
}

func TestCodeStringUnknown(t *testing.T) {
	var c Code = 9999
	if got, want := c.String(), "undefined_error"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
