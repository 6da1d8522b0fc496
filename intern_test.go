package cppbe

import "testing"

func TestInternReturnsSameHandleForSameText(t *testing.T) {
	a := Intern("foo_unique_marker")
	b := Intern("foo_unique_marker")
	if a != b {
		t.Fatalf("expected the same handle for repeated interning, got %v and %v", a, b)
	}
}

func TestInternDistinctTextsGetDistinctHandles(t *testing.T) {
	a := Intern("distinct_one")
	b := Intern("distinct_two")
	if a == b {
		t.Fatal("expected distinct handles for distinct text")
	}
}

func TestInternedStringRoundTripsToOriginalText(t *testing.T) {
	h := Intern("round_trip_marker")
	if h.String() != "round_trip_marker" {
		t.Fatalf("got %q", h.String())
	}
}
