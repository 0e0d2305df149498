package output

import (
	"fmt"
	"io"
	"sort"

	"election-check/core/ui"
)

// CLIFormatter writes a colored terminal report
type CLIFormatter struct {
	NoColor  bool
	Language string
}

// Format returns FormatCLI
func (CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the report
func (f CLIFormatter) Render(w io.Writer, report *Report) error {
	out := ui.NewWriter(w, f.NoColor)
	if f.Language != "" {
		out.SetLanguage(f.Language)
	}
	s := report.Summary

	title := "Validation"
	if report.Election != "" {
		title += " · " + report.Election
	}
	out.Header(title)

	if len(s.Documents) > 0 {
		table := out.NewTable("Document", "Layout", "Records")
		for _, d := range s.Documents {
			table.AddRow(d.Path, d.Layout, out.Number(int64(d.Records)))
		}
		table.Render()
		out.Println("")
	}

	if failure := report.Failure(); failure != nil {
		out.Error("Record %q of %s was rejected", failure.RecordID, failure.Document)
		out.Println("  %s %s", out.Colorize(ui.Bold, "kind:    "), failure.Kind)
		if failure.Location != "" {
			out.Println("  %s %s", out.Colorize(ui.Bold, "location:"), failure.Location)
		}
		out.Println("  %s %s", out.Colorize(ui.Bold, "reason:  "), failure.Message)
		if len(failure.Context) > 0 {
			keys := make([]string, 0, len(failure.Context))
			for k := range failure.Context {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				out.Println("  %s", out.Colorize(ui.Dim, fmt.Sprintf("%s = %v", k, failure.Context[k])))
			}
		}
	} else {
		out.Success("%s records accepted in %d documents", out.Number(int64(s.Accepted)), len(s.Documents))
	}

	out.Println("%s", out.Colorize(ui.Dim, fmt.Sprintf("run %s completed in %s", s.RunID, round(s.Duration))))
	return nil
}
