package output

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the horizontal alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column.
type Column struct {
	Header string
	Align  Align
}

// Table lays out rows of plain text in aligned columns. Widths are measured
// in terminal cells, so wide characters line up.
type Table struct {
	columns []Column
	rows    [][]string
	gap     int

	// Style, when set, decorates a padded cell after alignment. row is -1
	// for the header.
	Style func(row, col int, cell string) string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns, gap: 2}
}

// Append adds a row. Missing cells are left blank, extra cells dropped.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows, excluding the header.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header and all rows to w.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = runewidth.StringWidth(c.Header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = c.Header
	}

	if err := t.writeRow(w, -1, headers, widths); err != nil {
		return err
	}
	for r, row := range t.rows {
		if err := t.writeRow(w, r, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) writeRow(w io.Writer, r int, cells []string, widths []int) error {
	var buf strings.Builder
	for i, cell := range cells {
		if i > 0 {
			buf.WriteString(strings.Repeat(" ", t.gap))
		}

		last := i == len(cells)-1
		var padded string
		switch {
		case t.columns[i].Align == AlignRight:
			padded = runewidth.FillLeft(cell, widths[i])
		case last:
			padded = cell
		default:
			padded = runewidth.FillRight(cell, widths[i])
		}

		if t.Style != nil {
			padded = t.Style(r, i, padded)
		}
		buf.WriteString(padded)
	}
	buf.WriteByte('\n')

	_, err := io.WriteString(w, buf.String())
	return err
}
