package cryptids

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID failed: %v", err)
		}
		if len(id) != IDLength {
			t.Errorf("Expected length %d, got %d", IDLength, len(id))
		}
		for _, c := range id {
			if !strings.ContainsRune(IDAlphabet, c) {
				t.Errorf("Expected only alphabet characters, got %q in %s", c, id)
			}
		}
		if seen[id] {
			t.Errorf("Expected unique ids, got duplicate %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateCustomIDValidation(t *testing.T) {
	if _, err := GenerateCustomID("a", 4); err == nil {
		t.Error("Expected error for one character alphabet")
	}
	if _, err := GenerateCustomID("ab", 0); err == nil {
		t.Error("Expected error for zero size")
	}
}

func TestHashToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if len(token) != TokenLength {
		t.Errorf("Expected token length %d, got %d", TokenLength, len(token))
	}

	h1, h2 := HashToken(token), HashToken(token)
	if h1 != h2 {
		t.Errorf("Expected stable hash, got %s and %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(h1))
	}
	if HashToken(token+"x") == h1 {
		t.Error("Expected different tokens to hash differently")
	}
}
