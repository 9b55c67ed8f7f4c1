package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// PrintSummary writes the end-of-run statistics.
func (r *Report) PrintSummary(w io.Writer) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w, strings.Repeat("=", 60))
	switch r.Status {
	case "failed":
		red.Fprintln(w, "❌ Conversion aborted")
	default:
		green.Fprintln(w, "✅ Conversion complete")
	}
	fmt.Fprintf(w, "   Tables created:  %d\n", r.Stats.TablesCreated)
	fmt.Fprintf(w, "   Rows inserted:   %d\n", r.Stats.RowsInserted)
	fmt.Fprintf(w, "   Statements:      %d (%d dropped)\n", r.Stats.Statements, r.Stats.Dropped)
	if r.Stats.Repaired > 0 {
		fmt.Fprintf(w, "   Repaired:        %d\n", r.Stats.Repaired)
	}

	skipped := fmt.Sprintf("   Skipped:         %d\n", r.Stats.Skipped)
	if r.Stats.Skipped > 0 {
		yellow.Fprint(w, skipped)
		for _, name := range r.SkippedOutcomes() {
			fmt.Fprintf(w, "     - %s: %d\n", name, r.Skipped[name])
		}
	} else {
		fmt.Fprint(w, skipped)
	}
	fmt.Fprintf(w, "   Errors:          %d\n", r.Stats.Errors)
	fmt.Fprintf(w, "   Warnings:        %d\n", r.Stats.Warnings)
	fmt.Fprintf(w, "   Duration:        %s\n", r.Stats.Duration)
	if r.Fatal != "" {
		red.Fprintf(w, "   Fatal:           %s\n", r.Fatal)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
	if r.Output != "" {
		bold.Fprintf(w, "🎯 Output: %s\n", r.Output)
	}
}

// PrintTables draws the table list as a box: name, rows and columns.
func PrintTables(w io.Writer, tables []Table) {
	if len(tables) == 0 {
		fmt.Fprintln(w, "📊 No tables found")
		return
	}

	headers := []string{"table", "rows", "columns"}
	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, []string{t.Name, fmt.Sprint(t.Rows), fmt.Sprint(len(t.Columns))})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	border := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i, width := range widths {
			fmt.Fprint(w, strings.Repeat("─", width+2))
			if i < len(widths)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}
	line := func(vals []string) {
		fmt.Fprint(w, "│")
		for i, val := range vals {
			fmt.Fprintf(w, " %-*s │", widths[i], val)
		}
		fmt.Fprintln(w)
	}

	border("┌", "┬", "┐")
	line(headers)
	border("├", "┼", "┤")
	for _, row := range rows {
		line(row)
	}
	border("└", "┴", "┘")
}
