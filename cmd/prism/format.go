package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jward/prism/internal/render"
)

// formatCyclesText formats history rows as aligned columns.
func formatCyclesText(w io.Writer, cycles []CLICycle) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSEQ\tSTATE\tTOKENS\tNODES\tERRORS\tSOURCE\tID")
	for _, c := range cycles {
		state := c.State
		if c.ErrorKind != "" {
			state += " (" + c.ErrorKind + ")"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			c.StartedAt.Local().Format("2006-01-02 15:04:05"), c.Seq, state,
			c.TokenCount, c.NodeCount, c.ErrorCount, shortHash(c.SourceHash), c.ID)
	}
	tw.Flush()
}

// shortHash abbreviates a source hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	return writeResultText(os.Stdout, result)
}

func writeResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case CLIAnalysis:
		if err := render.Text(w, v.View, v.Sections...); err != nil {
			return err
		}
	case []CLICycle:
		formatCyclesText(w, v)
	case []CLIFileSummary:
		formatFileSummariesText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}

	// Pagination footer.
	if result.TotalCount != nil {
		count := *result.TotalCount
		shown := resultLen(result.Results)
		if shown < count {
			fmt.Fprintf(w, "\nShowing %d of %d results\n", shown, count)
		}
	}
	return nil
}

// resultLen returns the length of a result slice, or 1 for a single value.
func resultLen(v any) int {
	switch r := v.(type) {
	case []CLICycle:
		return len(r)
	case []CLIFileSummary:
		return len(r)
	case nil:
		return 0
	default:
		return 1
	}
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
