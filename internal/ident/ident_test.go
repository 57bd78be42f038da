package ident

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

var v4Pattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`,
)

func TestNewDeterministicSource(t *testing.T) {
	src := bytes.NewReader([]byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	})
	id, err := New(src)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if want := "00010203-0405-4607-8809-0a0b0c0d0e0f"; id != want {
		t.Fatalf("got %q, want %q", id, want)
	}
}

func TestNewForcesVersionAndVariant(t *testing.T) {
	id, err := New(bytes.NewReader(make([]byte, 16)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if want := "00000000-0000-4000-8000-000000000000"; id != want {
		t.Fatalf("got %q, want %q", id, want)
	}
	if !v4Pattern.MatchString(id) {
		t.Fatalf("identifier %q does not match the version-4 grammar", id)
	}
}

func TestNewRandomMatchesGrammar(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		id, err := NewRandom()
		if err != nil {
			t.Fatalf("new random: %v", err)
		}
		if len(id) != 36 {
			t.Fatalf("identifier %q is not 36 characters", id)
		}
		if !v4Pattern.MatchString(id) {
			t.Fatalf("identifier %q does not match the version-4 grammar", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("identifier %q repeated", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewShortSource(t *testing.T) {
	if _, err := New(strings.NewReader("short")); err == nil {
		t.Fatalf("expected error from short source")
	}
	if _, err := New(bytes.NewReader(nil)); err == nil {
		t.Fatalf("expected error from empty source")
	}
}
