package filter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/model"
)

func TestApply(t *testing.T) {
	a := alphabet.Default()
	cases := []struct {
		name  string
		input string
		mode  model.Mode
		want  string
	}{
		{"strip keeps letters only", "Привет, мир!", model.StripSpaces, "приветмир"},
		{"strip drops ascii", "hello world", model.StripSpaces, ""},
		{"preserve collapses runs", "Да   нет\t\tможет", model.PreserveSpaces, "да нет может"},
		{"preserve drops punctuation", "Да, нет", model.PreserveSpaces, "да нет"},
		{"preserve ascii only spaces", "ab  cd e", model.PreserveSpaces, "  "},
		{"newline does not emit", "да\nнет", model.PreserveSpaces, "данет"},
		{"newline breaks a run", "да \n нет", model.PreserveSpaces, "да  нет"},
		{"empty", "", model.PreserveSpaces, ""},
	}
	for _, tc := range cases {
		got := Apply(a.Encode(tc.input), tc.mode, a)
		want := a.Encode(tc.want)
		if !bytes.Equal(got, want) {
			t.Fatalf("%s: got %q, want %q", tc.name, a.Text(string(got)), tc.want)
		}
	}
}

func TestReadAll(t *testing.T) {
	a := alphabet.Default()
	got, err := ReadAll(bytes.NewReader(a.Encode("АБ аб")), model.StripSpaces, a)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, a.Encode("абаб")) {
		t.Fatalf("unexpected stream %q", a.Text(string(got)))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReadAllPropagatesReadError(t *testing.T) {
	if _, err := ReadAll(failingReader{}, model.StripSpaces, alphabet.Default()); err == nil {
		t.Fatalf("expected read error")
	}
}
