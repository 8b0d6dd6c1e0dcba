package stats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/filter"
	"github.com/verte-zerg/symkrypt/internal/model"
)

const mixedCaseReport = `Run: fixed-tag
Mode: withoutSpaces
Total symbols: 4

Symbols
Symbol Count Frequency
а          2  0.500000
б          2  0.500000

Distinct symbols: 2
Symbol entropy: 1.000000

Overlapping bigrams
Bigram Count Frequency
аб         2  0.666667
ба         1  0.333333

Overlapping bigram total: 3
Overlapping bigram entropy: 0.459148

Non-overlapping bigrams
Bigram Count Frequency
аб         2  1.000000

Non-overlapping bigram total: 2
Non-overlapping bigram entropy: 0.000000
`

func TestRenderReport(t *testing.T) {
	a := alphabet.Default()
	s := Analyze(filter.Apply(a.Encode("АБаб"), model.StripSpaces, a), model.StripSpaces)

	var buf bytes.Buffer
	if err := RenderReport(&buf, s, a, "fixed-tag"); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	if buf.String() != mixedCaseReport {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, Analyze(nil, model.PreserveSpaces), alphabet.Default(), "empty"); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Mode: withSpaces",
		"Total symbols: 0",
		"(none)",
		"Symbol entropy: 0.000000",
		"Overlapping bigram entropy: 0.000000",
		"Non-overlapping bigram entropy: 0.000000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportDeterministic(t *testing.T) {
	a := alphabet.Default()
	s := Analyze(filter.Apply(a.Encode("Мама мыла раму, рама мыла маму"), model.PreserveSpaces, a), model.PreserveSpaces)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	if err := WriteReport(first, s, a, "tag"); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	again := Analyze(filter.Apply(a.Encode("Мама мыла раму, рама мыла маму"), model.PreserveSpaces, a), model.PreserveSpaces)
	if err := WriteReport(second, again, a, "tag"); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	b1, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	b2, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("reports differ")
	}
	if !strings.Contains(string(b1), "<space>") {
		t.Fatalf("expected space symbol in report")
	}
}

func TestWriteReportMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	if err := WriteReport(path, Analyze(nil, model.StripSpaces), alphabet.Default(), "x"); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
