package render

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/janus-values/sqlvalue"
)

// valueColumn heads the single column used for values that are not objects
const valueColumn = "value"

// TableFormatter formats values as markdown tables
type TableFormatter struct {
	// MaxWidth is the maximum width of a cell, in runes; zero means unlimited
	MaxWidth int
	// TruncateString is appended to truncated cells
	TruncateString string
}

// NewTableFormatter creates a new table formatter with default settings
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		MaxWidth:       50,
		TruncateString: "...",
	}
}

// Format renders v as a table. An array of objects gives one row per
// object with columns in first-seen key order; a lone object gives one
// row; anything else gives a single value column.
func (tf *TableFormatter) Format(v sqlvalue.Value) (string, error) {
	rows := []sqlvalue.Value{v}
	if arr, ok := v.(sqlvalue.Array); ok {
		rows = arr
	}
	if len(rows) == 0 {
		return "_No rows_", nil
	}

	if columns, ok := objectColumns(rows); ok {
		cells := make([][]string, len(rows))
		for i, row := range rows {
			obj := row.(*sqlvalue.Object)
			cells[i] = make([]string, len(columns))
			for j, col := range columns {
				if field, ok := obj.Get(col); ok {
					cells[i][j] = tf.formatValue(field)
				}
			}
		}
		return tf.formatTable(columns, cells)
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{tf.formatValue(row)}
	}
	return tf.formatTable([]string{valueColumn}, cells)
}

// objectColumns collects the keys of rows when every row is an object
func objectColumns(rows []sqlvalue.Value) ([]string, bool) {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		obj, ok := row.(*sqlvalue.Object)
		if !ok {
			return nil, false
		}
		for _, k := range obj.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	return columns, len(columns) > 0
}

// formatTable formats columns and rows as a markdown table
func (tf *TableFormatter) formatTable(columns []string, rows [][]string) (string, error) {
	tableString := &strings.Builder{}

	// AlignNone keeps the separators plain
	alignment := make([]tw.Align, len(columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header(columns)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return "", fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(tableString, "\n_%d rows_\n", len(rows))
	return tableString.String(), nil
}

// formatValue renders a cell. Strings appear without quotes.
func (tf *TableFormatter) formatValue(v sqlvalue.Value) string {
	var text string
	switch v := v.(type) {
	case nil:
		text = sqlvalue.None{}.String()
	case sqlvalue.Strand:
		text = string(v)
	default:
		text = v.String()
	}
	return tf.truncate(text)
}

func (tf *TableFormatter) truncate(s string) string {
	if tf.MaxWidth <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= tf.MaxWidth {
		return s
	}
	keep := max(tf.MaxWidth-len([]rune(tf.TruncateString)), 0)
	return string(runes[:keep]) + tf.TruncateString
}
