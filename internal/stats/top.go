package stats

import (
	"sort"

	"github.com/verte-zerg/symkrypt/internal/model"
)

// TopSymbols returns the n most frequent symbols, ties broken by ascending byte
// value. n <= 0 returns every symbol.
func TopSymbols(s model.TextStatistics, n int) []model.SymbolCount {
	items := make([]model.SymbolCount, 0, len(s.SymbolCounts))
	for k, c := range s.SymbolCounts {
		items = append(items, model.SymbolCount{Symbol: string([]byte{k}), Count: c})
	}
	return rank(items, n)
}

// TopBigrams returns the n most frequent bigrams of counts.
func TopBigrams(counts map[string]int, n int) []model.SymbolCount {
	items := make([]model.SymbolCount, 0, len(counts))
	for k, c := range counts {
		items = append(items, model.SymbolCount{Symbol: k, Count: c})
	}
	return rank(items, n)
}

// TopCounts ranks a copy of items the same way, returning at most n.
func TopCounts(items []model.SymbolCount, n int) []model.SymbolCount {
	return rank(append([]model.SymbolCount(nil), items...), n)
}

func rank(items []model.SymbolCount, n int) []model.SymbolCount {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Symbol < items[j].Symbol
		}
		return items[i].Count > items[j].Count
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
