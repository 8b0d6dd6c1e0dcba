package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/symkrypt/internal/model"
)

// RenderHistory prints recorded runs, oldest first.
func RenderHistory(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	headers := []string{"ID", "Started", "Mode", "Symbols", "Distinct", "H1", "H2", "H2'", "Input", "Tag"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Mode.Suffix(),
			strconv.Itoa(r.TotalSymbols),
			strconv.Itoa(r.DistinctSymbols),
			formatEntropy(r.SymbolEntropy),
			formatEntropy(r.OverlappingBigramEntropy),
			formatEntropy(r.NonOverlappingBigramEntropy),
			r.Input,
			r.Tag,
		})
	}
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
