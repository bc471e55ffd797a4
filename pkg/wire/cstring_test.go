package wire

import (
	"bufio"
	"bytes"
	"testing"
)

func TestCStringRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"alice",
		"/tmp/some file-ish.txt",
		"a string with some unicode café 日本語",
	}
	for _, want := range cases {
		var buf bytes.Buffer
		if err := WriteCString(&buf, want); err != nil {
			t.Fatalf("WriteCString(%q): %v", want, err)
		}
		got, err := ReadCString(bufio.NewReader(&buf))
		if err != nil {
			t.Fatalf("ReadCString(%q): %v", want, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: wrote %q, read %q", want, got)
		}
	}
}

func TestReadCStringUnexpectedEOF(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte("no-terminator")))
	if _, err := ReadCString(r); err == nil {
		t.Fatalf("expected error reading unterminated string, got nil")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStatus(&buf, Status(3)); err != nil {
		t.Fatalf("WriteStatus: %v", err)
	}
	got, err := ReadStatus(&buf)
	if err != nil {
		t.Fatalf("ReadStatus: %v", err)
	}
	if got != Status(3) {
		t.Fatalf("expected status 3, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(""); err != ErrEmptyField {
		t.Fatalf("expected ErrEmptyField, got %v", err)
	}
	long := make([]byte, MaxFieldLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := Validate(string(long)); err != ErrFieldTooLong {
		t.Fatalf("expected ErrFieldTooLong, got %v", err)
	}
	if err := Validate("ok"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidatePathRejectsSpaces(t *testing.T) {
	if err := ValidatePath("/tmp/has space"); err != ErrContainsSpace {
		t.Fatalf("expected ErrContainsSpace, got %v", err)
	}
	if err := ValidatePath("/tmp/no-spaces"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
