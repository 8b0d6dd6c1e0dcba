package stats

import (
	"testing"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/filter"
	"github.com/verte-zerg/symkrypt/internal/generator"
	"github.com/verte-zerg/symkrypt/internal/model"
)

func TestCountMixedCaseWithoutSeparators(t *testing.T) {
	a := alphabet.Default()
	stream := filter.Apply(a.Encode("АБаб"), model.StripSpaces, a)
	s := Count(stream, model.StripSpaces)

	alpha := a.Encode("а")[0]
	beta := a.Encode("б")[0]
	ab := string(a.Encode("аб"))
	ba := string(a.Encode("ба"))

	if s.TotalSymbols != 4 {
		t.Fatalf("expected 4 symbols, got %d", s.TotalSymbols)
	}
	if len(s.SymbolCounts) != 2 || s.SymbolCounts[alpha] != 2 || s.SymbolCounts[beta] != 2 {
		t.Fatalf("unexpected symbol counts: %v", s.SymbolCounts)
	}
	if s.OverlappingBigramTotal != 3 {
		t.Fatalf("expected 3 overlapping bigrams, got %d", s.OverlappingBigramTotal)
	}
	if len(s.OverlappingBigramCounts) != 2 || s.OverlappingBigramCounts[ab] != 2 || s.OverlappingBigramCounts[ba] != 1 {
		t.Fatalf("unexpected overlapping counts: %v", s.OverlappingBigramCounts)
	}
	if s.NonOverlappingBigramTotal != 2 {
		t.Fatalf("expected 2 non-overlapping bigrams, got %d", s.NonOverlappingBigramTotal)
	}
	if len(s.NonOverlappingBigramCounts) != 1 || s.NonOverlappingBigramCounts[ab] != 2 {
		t.Fatalf("unexpected non-overlapping counts: %v", s.NonOverlappingBigramCounts)
	}
}

func TestCountEmpty(t *testing.T) {
	s := Analyze(nil, model.PreserveSpaces)
	if s.TotalSymbols != 0 || s.OverlappingBigramTotal != 0 || s.NonOverlappingBigramTotal != 0 {
		t.Fatalf("expected zero totals, got %+v", s)
	}
	if s.SymbolEntropy != 0 || s.OverlappingBigramEntropy != 0 || s.NonOverlappingBigramEntropy != 0 {
		t.Fatalf("expected zero entropies, got %+v", s)
	}
}

func TestCountSingleSymbol(t *testing.T) {
	s := Analyze([]byte{0xE0}, model.StripSpaces)
	if s.TotalSymbols != 1 || s.OverlappingBigramTotal != 0 || s.NonOverlappingBigramTotal != 0 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.SymbolEntropy != 0 || s.OverlappingBigramEntropy != 0 {
		t.Fatalf("expected zero entropies, got %+v", s)
	}
}

func TestCountInvariants(t *testing.T) {
	a := alphabet.Default()
	inputs := []string{
		"Съешь же ещё этих мягких французских булок, да выпей чаю.",
		"а",
		"аб",
		"абв",
		"   Шла Саша по шоссе   и сосала сушку\n\n",
	}
	for seed := int64(1); seed <= 3; seed++ {
		sample := generator.NewSeeded(seed).Generate(a, 300, 9, 0.2, 7)
		inputs = append(inputs, a.Text(string(sample)))
	}
	for _, input := range inputs {
		for _, mode := range model.AllModes {
			s := Count(filter.Apply(a.Encode(input), mode, a), mode)
			sum := 0
			for _, c := range s.SymbolCounts {
				sum += c
			}
			if sum != s.TotalSymbols {
				t.Fatalf("%q/%s: symbol sum %d != total %d", input, mode, sum, s.TotalSymbols)
			}
			if s.TotalSymbols == 0 {
				continue
			}
			sum = 0
			for _, c := range s.OverlappingBigramCounts {
				sum += c
			}
			if sum != s.OverlappingBigramTotal || sum != s.TotalSymbols-1 {
				t.Fatalf("%q/%s: overlapping sum %d, total %d, symbols %d", input, mode, sum, s.OverlappingBigramTotal, s.TotalSymbols)
			}
			sum = 0
			for _, c := range s.NonOverlappingBigramCounts {
				sum += c
			}
			if sum != s.NonOverlappingBigramTotal || sum != s.TotalSymbols/2 {
				t.Fatalf("%q/%s: non-overlapping sum %d, total %d, symbols %d", input, mode, sum, s.NonOverlappingBigramTotal, s.TotalSymbols)
			}
		}
	}
}

func TestCountBigramsSpanSpaces(t *testing.T) {
	a := alphabet.Default()
	stream := filter.Apply(a.Encode("а б"), model.PreserveSpaces, a)
	s := Count(stream, model.PreserveSpaces)
	if s.SymbolCounts[' '] != 1 {
		t.Fatalf("expected one space symbol, got %v", s.SymbolCounts)
	}
	if s.OverlappingBigramCounts[string(a.Encode("а "))] != 1 || s.OverlappingBigramCounts[string(a.Encode(" б"))] != 1 {
		t.Fatalf("expected bigrams spanning the space, got %v", s.OverlappingBigramCounts)
	}
}
