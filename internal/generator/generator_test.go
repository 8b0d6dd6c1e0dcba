package generator

import (
	"bytes"
	"testing"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
)

func TestGenerateDeterministic(t *testing.T) {
	a := alphabet.Default()
	first := NewSeeded(7).Generate(a, 50, 8, 0.2, 10)
	second := NewSeeded(7).Generate(a, 50, 8, 0.2, 10)
	if !bytes.Equal(first, second) {
		t.Fatalf("same seed must produce same text")
	}
	if bytes.Count(first, []byte{'\n'}) != 4 {
		t.Fatalf("expected 4 line breaks, got %d", bytes.Count(first, []byte{'\n'}))
	}
}

func TestGenerateStaysInAlphabet(t *testing.T) {
	a, err := alphabet.New(224, 227, alphabet.DefaultEncoding)
	if err != nil {
		t.Fatalf("alphabet: %v", err)
	}
	text := NewSeeded(1).Generate(a, 100, 5, 0, 0)
	for _, b := range text {
		if b != ' ' && !a.InScope(b) {
			t.Fatalf("unexpected byte %#x", b)
		}
	}
	if NewSeeded(1).Generate(a, 0, 5, 0, 0) != nil {
		t.Fatalf("expected nil for zero words")
	}
}
