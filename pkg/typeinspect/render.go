package typeinspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/go-yaml"
	"github.com/mattn/go-runewidth"
)

// TextOptions controls RenderText.
type TextOptions struct {
	// MaxCellWidth truncates cells wider than this many columns (0 = no limit).
	MaxCellWidth int
	// BitVecs adds a column with the bit-vector encoding.
	BitVecs bool
}

// RenderText writes r as an aligned table. Widths are measured in
// terminal columns, so class names with wide runes line up.
func RenderText(w io.Writer, r *Report, opts TextOptions) error {
	header := []string{"#", "QUERY", "RESULT"}
	if opts.BitVecs {
		header = append(header, "BITVEC")
	}
	rows := [][]string{header}
	for i, res := range r.Results {
		result := strings.Join(res.Types, ", ")
		if res.Error != "" {
			result = "error: " + res.Error
		} else if result == "" {
			result = "-"
		}
		row := []string{fmt.Sprint(i), res.Query, result}
		if opts.BitVecs {
			row = append(row, res.BitVec)
		}
		rows = append(rows, row)
	}

	if opts.MaxCellWidth > 0 {
		for _, row := range rows {
			for j, cell := range row {
				row[j] = runewidth.Truncate(cell, opts.MaxCellWidth, "...")
			}
		}
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	if r.Source != "" {
		fmt.Fprintf(&b, "%s: ", r.Source)
	}
	fmt.Fprintf(&b, "%d classes, %d type ids\n", r.Classes, r.NumberOfTypes)
	for _, row := range rows {
		for j, cell := range row {
			if j == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[j]))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}
	for i, res := range r.Results {
		if res.Constraint != "" {
			fmt.Fprintf(&b, "\nqueries[%d] constraint:\n%s\n", i, res.Constraint)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderYAML writes r as a YAML document.
func RenderYAML(w io.Writer, r *Report) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(out)
	return err
}
