package stats

import (
	"math"
	"testing"

	"github.com/verte-zerg/symkrypt/internal/model"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEntropyUniform(t *testing.T) {
	counts := map[byte]int{'a': 5, 'b': 5, 'c': 5, 'd': 5}
	if got := Entropy(counts, 20); !approxEqual(got, 2) {
		t.Fatalf("expected 2 bits, got %f", got)
	}
}

func TestEntropyGuards(t *testing.T) {
	if got := Entropy(map[string]int{}, 10); got != 0 {
		t.Fatalf("expected 0 for empty map, got %f", got)
	}
	if got := Entropy(map[string]int{"ab": 1}, 0); got != 0 {
		t.Fatalf("expected 0 for zero trials, got %f", got)
	}
	if got := Entropy(map[string]int{"ab": 1}, -1); got != 0 {
		t.Fatalf("expected 0 for negative trials, got %f", got)
	}
}

func TestEntropyUniformIsMaximal(t *testing.T) {
	uniform := Entropy(map[byte]int{'a': 3, 'b': 3, 'c': 3}, 9)
	skewed := Entropy(map[byte]int{'a': 7, 'b': 1, 'c': 1}, 9)
	if skewed < 0 {
		t.Fatalf("entropy must be non-negative, got %f", skewed)
	}
	if skewed >= uniform {
		t.Fatalf("expected skewed %f < uniform %f", skewed, uniform)
	}
}

func TestComputeEntropyScalesBigrams(t *testing.T) {
	s := model.NewTextStatistics(model.StripSpaces)
	s.TotalSymbols = 4
	s.SymbolCounts['a'] = 2
	s.SymbolCounts['b'] = 2
	s.OverlappingBigramCounts["ab"] = 2
	s.OverlappingBigramCounts["ba"] = 1
	s.OverlappingBigramTotal = 3
	s.NonOverlappingBigramCounts["ab"] = 1
	s.NonOverlappingBigramCounts["cd"] = 1
	s.NonOverlappingBigramTotal = 2
	ComputeEntropy(&s)

	if !approxEqual(s.SymbolEntropy, 1) {
		t.Fatalf("expected symbol entropy 1, got %f", s.SymbolEntropy)
	}
	want := -(2.0/3*math.Log2(2.0/3) + 1.0/3*math.Log2(1.0/3)) * BigramEntropyScale
	if !approxEqual(s.OverlappingBigramEntropy, want) {
		t.Fatalf("expected overlapping entropy %f, got %f", want, s.OverlappingBigramEntropy)
	}
	if !approxEqual(s.NonOverlappingBigramEntropy, 0.5) {
		t.Fatalf("expected non-overlapping entropy 0.5, got %f", s.NonOverlappingBigramEntropy)
	}
}
