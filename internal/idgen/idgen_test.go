package idgen

import (
	"strings"
	"testing"
)

func TestDocKeyLengthAndAlphabet(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		key := DocKey()
		if len(key) != 12 {
			t.Fatalf("DocKey() length = %d, want 12 (%q)", len(key), key)
		}
		for _, c := range key {
			if !strings.ContainsRune(alphanum, c) {
				t.Fatalf("DocKey() produced non-alphanumeric rune %q in %q", c, key)
			}
		}
		if seen[key] {
			t.Fatalf("DocKey() produced duplicate %q within 200 draws", key)
		}
		seen[key] = true
	}
}

func TestNewIDPrefix(t *testing.T) {
	id := NewID("rev")
	if !strings.HasPrefix(id, "rev-") {
		t.Fatalf("NewID(rev) = %q, want rev- prefix", id)
	}
	if len(id) != len("rev-")+10 {
		t.Fatalf("NewID(rev) length = %d, want %d", len(id), len("rev-")+10)
	}
}
