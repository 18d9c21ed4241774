package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const tablePadding = 2

// writeTable renders rows as aligned columns. Cell widths are measured on
// display width with ANSI sequences stripped, so emoji icons line up.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	cols := len(headers)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if i >= cols {
				break
			}
			if w := runewidth.StringWidth(stripANSI(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	w := bufio.NewWriter(out)
	writeRow := func(row []string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			w.WriteString(cell)
			if i < cols-1 {
				pad := widths[i] - runewidth.StringWidth(stripANSI(cell))
				if pad < 0 {
					pad = 0
				}
				w.WriteString(strings.Repeat(" ", pad+tablePadding))
			}
		}
		w.WriteString("\n")
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return w.Flush()
}

func stripANSI(value string) string {
	if !strings.ContainsRune(value, 0x1b) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] != 0x1b || i+1 >= len(value) || value[i+1] != '[' {
			b.WriteByte(value[i])
			continue
		}
		i += 2
		for i < len(value) {
			if ch := value[i]; ch >= 0x40 && ch <= 0x7e {
				break
			}
			i++
		}
	}
	return b.String()
}
