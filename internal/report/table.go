// Package report renders analysis summaries for terminals, Markdown
// artifacts and CI annotations.
package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Mode selects the rendering target.
type Mode int

const (
	ASCII    Mode = iota // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// Table wraps go-pretty for the two render targets the CLI emits.
type Table struct {
	writer table.Writer
	mode   Mode
}

// NewTable creates a table with the given headers.
func NewTable(mode Mode, headers ...string) *Table {
	w := table.NewWriter()
	if mode == ASCII {
		w.SetStyle(table.StyleLight)
	}
	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	w.AppendHeader(row)
	return &Table{writer: w, mode: mode}
}

// Row appends a data row. Values are rendered via fmt.Sprint.
func (t *Table) Row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendRow(row)
}

// ColumnWidths caps column widths positionally; 0 leaves a column
// unlimited.
func (t *Table) ColumnWidths(widths ...int) {
	var cfgs []table.ColumnConfig
	for i, w := range widths {
		if w > 0 {
			cfgs = append(cfgs, table.ColumnConfig{Number: i + 1, WidthMax: w})
		}
	}
	t.writer.SetColumnConfigs(cfgs)
}

// String renders the table in the configured mode.
func (t *Table) String() string {
	if t.mode == Markdown {
		return t.writer.RenderMarkdown()
	}
	return t.writer.Render()
}

// clip shortens s to at most max bytes, marking the cut with an
// ellipsis when there is room for one.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
