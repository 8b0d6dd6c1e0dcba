package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/symkrypt/internal/model"
)

// BigramEntropyScale multiplies both bigram entropies. It is kept at 0.5 so
// reports stay comparable with earlier output; it is a fixed scaling, not a
// per-symbol normalization.
const BigramEntropyScale = 0.5

// Entropy returns the Shannon entropy in bits of counts over n trials. Keys
// are summed in ascending order so the result is reproducible. It returns 0
// when n <= 0 or counts is empty.
func Entropy[K byte | string](counts map[K]int, n int) float64 {
	if n <= 0 || len(counts) == 0 {
		return 0
	}
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	total := float64(n)
	h := 0.0
	for _, k := range keys {
		c := counts[k]
		if c <= 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

// ComputeEntropy fills the entropy fields of s from its counts.
func ComputeEntropy(s *model.TextStatistics) {
	s.SymbolEntropy = Entropy(s.SymbolCounts, s.TotalSymbols)
	s.OverlappingBigramEntropy = Entropy(s.OverlappingBigramCounts, s.TotalSymbols-1) * BigramEntropyScale
	s.NonOverlappingBigramEntropy = Entropy(s.NonOverlappingBigramCounts, s.TotalSymbols/2) * BigramEntropyScale
}
