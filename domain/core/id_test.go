package core

import "testing"

func TestNewIDUnique(t *testing.T) {
	a := NewID()
	b := NewID()
	if a.IsEmpty() || b.IsEmpty() {
		t.Fatal("generated IDs must not be empty")
	}
	if a == b {
		t.Errorf("two generated IDs collided: %s", a)
	}
}

func TestParseRunID(t *testing.T) {
	if _, err := ParseRunID("  "); err == nil {
		t.Error("blank run ID should be rejected")
	}
	id, err := ParseRunID("run-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "run-123" {
		t.Errorf("run ID = %q", id.String())
	}
}
