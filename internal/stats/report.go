package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/model"
)

var listingAlign = map[int]bool{1: true, 2: true}

// RenderReport writes the text report for s. marker identifies the run and is
// written verbatim on the first line.
func RenderReport(w io.Writer, s model.TextStatistics, a *alphabet.Alphabet, marker string) error {
	if _, err := fmt.Fprintf(w, "Run: %s\n", marker); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Mode: %s\n", s.Mode.Suffix()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total symbols: %d\n\n", s.TotalSymbols); err != nil {
		return err
	}

	symbolRows := make([][]string, 0, len(s.SymbolCounts))
	for _, k := range s.SortedSymbols() {
		key := string([]byte{k})
		symbolRows = append(symbolRows, listingRow(a.Label(key), s.SymbolCounts[k], s.TotalSymbols))
	}
	if err := writeListing(w, "Symbols", "Symbol", symbolRows); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Distinct symbols: %d\n", s.DistinctSymbols()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Symbol entropy: %s\n\n", formatEntropy(s.SymbolEntropy)); err != nil {
		return err
	}

	if err := writeListing(w, "Overlapping bigrams", "Bigram", bigramRows(s.OverlappingBigramCounts, s.OverlappingBigramTotal, a)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overlapping bigram total: %d\n", s.OverlappingBigramTotal); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overlapping bigram entropy: %s\n\n", formatEntropy(s.OverlappingBigramEntropy)); err != nil {
		return err
	}

	if err := writeListing(w, "Non-overlapping bigrams", "Bigram", bigramRows(s.NonOverlappingBigramCounts, s.NonOverlappingBigramTotal, a)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Non-overlapping bigram total: %d\n", s.NonOverlappingBigramTotal); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Non-overlapping bigram entropy: %s\n", formatEntropy(s.NonOverlappingBigramEntropy)); err != nil {
		return err
	}
	return nil
}

// WriteReport renders the report into path, replacing it atomically.
func WriteReport(path string, s model.TextStatistics, a *alphabet.Alphabet, marker string) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "report-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := RenderReport(writer, s, a, marker); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeListing(w io.Writer, title, keyHeader string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, "")
		return err
	}
	for _, line := range formatTable([]string{keyHeader, "Count", "Frequency"}, rows, listingAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func bigramRows(counts map[string]int, total int, a *alphabet.Alphabet) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, k := range model.SortedBigrams(counts) {
		rows = append(rows, listingRow(a.Label(k), counts[k], total))
	}
	return rows
}

func listingRow(label string, count, total int) []string {
	return []string{label, strconv.Itoa(count), fmt.Sprintf("%.6f", Frequency(count, total))}
}

// Frequency returns count/total, or 0 when total is not positive.
func Frequency(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func formatEntropy(h float64) string {
	return strconv.FormatFloat(h, 'f', 6, 64)
}
