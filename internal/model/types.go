// Package model defines shared data structures.
package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Mode selects a pipeline variant.
type Mode int

const (
	// PreserveSpaces keeps letters and single collapsed spaces.
	PreserveSpaces Mode = iota
	// StripSpaces keeps letters only.
	StripSpaces
)

// AllModes lists pipeline variants in the order they run.
var AllModes = []Mode{PreserveSpaces, StripSpaces}

// String returns the CLI name of the mode.
func (m Mode) String() string {
	switch m {
	case PreserveSpaces:
		return "with-spaces"
	case StripSpaces:
		return "without-spaces"
	default:
		return "unknown"
	}
}

// Suffix returns the report file name suffix for the mode.
func (m Mode) Suffix() string {
	switch m {
	case PreserveSpaces:
		return "withSpaces"
	case StripSpaces:
		return "withoutSpaces"
	default:
		return "unknown"
	}
}

// ParseMode parses a CLI mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "with-spaces", "withspaces", "preserve":
		return PreserveSpaces, nil
	case "without-spaces", "withoutspaces", "strip":
		return StripSpaces, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// ParseModes parses a mode selection; "both" or empty selects every mode.
func ParseModes(s string) ([]Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "both" || s == "all" {
		return append([]Mode(nil), AllModes...), nil
	}
	m, err := ParseMode(s)
	if err != nil {
		return nil, err
	}
	return []Mode{m}, nil
}

// TextStatistics is the result of one pipeline run.
type TextStatistics struct {
	Mode Mode

	TotalSymbols              int
	OverlappingBigramTotal    int
	NonOverlappingBigramTotal int

	SymbolCounts               map[byte]int
	OverlappingBigramCounts    map[string]int
	NonOverlappingBigramCounts map[string]int

	SymbolEntropy               float64
	OverlappingBigramEntropy    float64
	NonOverlappingBigramEntropy float64
}

// NewTextStatistics returns empty statistics for a mode.
func NewTextStatistics(mode Mode) TextStatistics {
	return TextStatistics{
		Mode:                       mode,
		SymbolCounts:               map[byte]int{},
		OverlappingBigramCounts:    map[string]int{},
		NonOverlappingBigramCounts: map[string]int{},
	}
}

// DistinctSymbols returns the number of distinct symbols.
func (s TextStatistics) DistinctSymbols() int {
	return len(s.SymbolCounts)
}

// SortedSymbols returns symbol keys in ascending byte order.
func (s TextStatistics) SortedSymbols() []byte {
	keys := make([]byte, 0, len(s.SymbolCounts))
	for k := range s.SymbolCounts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// SortedBigrams returns bigram keys in ascending byte order.
func SortedBigrams(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RunConfig defines settings for an analysis run.
type RunConfig struct {
	Input     string
	OutBase   string
	Tag       string
	Encoding  string
	RangeLow  int
	RangeHigh int
	Modes     []Mode
	Top       int
	Chart     bool
	History   bool
	Parallel  bool
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Input string
	Mode  *Mode
	Last  int
}

// RunRecord summarizes a finished pipeline run.
type RunRecord struct {
	ID                          int64
	StartedAt                   time.Time
	Tag                         string
	Input                       string
	Mode                        Mode
	ReportPath                  string
	TotalSymbols                int
	DistinctSymbols             int
	OverlappingBigramTotal      int
	NonOverlappingBigramTotal   int
	SymbolEntropy               float64
	OverlappingBigramEntropy    float64
	NonOverlappingBigramEntropy float64
}

// SymbolCount is a single symbol with its count.
type SymbolCount struct {
	Symbol string
	Count  int
}
