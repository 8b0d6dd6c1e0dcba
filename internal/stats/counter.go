// Package stats contains frequency counting, entropy estimation and reporting.
package stats

import "github.com/verte-zerg/symkrypt/internal/model"

// Count walks stream once and tallies symbols, overlapping bigrams and
// non-overlapping bigrams. Non-overlapping pairs are those starting at an even
// index of the stream.
func Count(stream []byte, mode model.Mode) model.TextStatistics {
	s := model.NewTextStatistics(mode)
	for i, c := range stream {
		s.SymbolCounts[c]++
		if i+1 < len(stream) {
			bigram := string([]byte{c, stream[i+1]})
			s.OverlappingBigramCounts[bigram]++
			s.OverlappingBigramTotal++
			if i%2 == 0 {
				s.NonOverlappingBigramCounts[bigram]++
				s.NonOverlappingBigramTotal++
			}
		}
		s.TotalSymbols++
	}
	return s
}

// Analyze counts stream and fills in the entropy fields.
func Analyze(stream []byte, mode model.Mode) model.TextStatistics {
	s := Count(stream, mode)
	ComputeEntropy(&s)
	return s
}
