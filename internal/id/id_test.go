package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("bm")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.HasPrefix(got, "bm-") {
		t.Errorf("expected prefix %q, got %q", "bm-", got)
	}

	// Default NanoID is 21 characters plus our prefix and dash.
	if len(got) != len("bm-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id, err := Generate("tag")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestMustGenerate(t *testing.T) {
	got := MustGenerate("col")
	if !strings.HasPrefix(got, "col-") {
		t.Errorf("expected prefix %q, got %q", "col-", got)
	}
}
