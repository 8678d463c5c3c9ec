package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. Numeric columns are right aligned.
type column struct {
	title   string
	numeric bool
}

// layoutTable sizes every column to its widest cell, measured in terminal
// cells so wide runes line up, and returns the header line followed by rows.
func layoutTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			widths[i] = max(widths[i], runewidth.StringWidth(cellAt(row, i)))
		}
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, widths, titles))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		if c.numeric {
			cells[i] = runewidth.FillLeft(cellAt(row, i), widths[i])
		} else {
			cells[i] = runewidth.FillRight(cellAt(row, i), widths[i])
		}
	}
	return strings.Join(cells, " ")
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
