package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/model"
)

const (
	barChar             = '#'
	minBarWidth         = 10
	terminalWidthBackup = 80
)

// RenderTop prints a ranked table of items with their share of total.
func RenderTop(w io.Writer, title string, items []model.SymbolCount, total int, a *alphabet.Alphabet) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No symbols found.")
		return err
	}
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			a.Label(item.Symbol),
			strconv.Itoa(item.Count),
			fmt.Sprintf("%.2f%%", Frequency(item.Count, total)*100),
		})
	}
	for _, line := range formatTable([]string{"#", "Symbol", "Count", "Share"}, rows, map[int]bool{0: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistogram prints one horizontal bar per item scaled to the largest
// count. width is the total line width; 0 uses the terminal width.
func RenderHistogram(w io.Writer, title string, items []model.SymbolCount, a *alphabet.Alphabet, width int) error {
	if len(items) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	labelWidth := 0
	countWidth := 0
	maxCount := 0
	for _, item := range items {
		if lw := displayWidth(a.Label(item.Symbol)); lw > labelWidth {
			labelWidth = lw
		}
		if cw := len(strconv.Itoa(item.Count)); cw > countWidth {
			countWidth = cw
		}
		if item.Count > maxCount {
			maxCount = item.Count
		}
	}
	barWidth := width - labelWidth - countWidth - 4
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, item := range items {
		n := 0
		if maxCount > 0 {
			n = item.Count * barWidth / maxCount
		}
		if n == 0 && item.Count > 0 {
			n = 1
		}
		line := fmt.Sprintf("%s %s | %s",
			padCell(a.Label(item.Symbol), labelWidth, false),
			padCell(strconv.Itoa(item.Count), countWidth, true),
			strings.Repeat(string(barChar), n),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
