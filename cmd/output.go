package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"mspro-labs/college-scout/internal/collector"
	"mspro-labs/college-scout/internal/models"
)

func renderColleges(w io.Writer, rs models.ResultSet) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{"#"}
	for _, h := range models.Header {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for i, c := range rs {
		t.AppendRow(table.Row{i + 1, c.Name, c.City, c.Email, c.Course})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// statusMessage turns a Report into the one-line message shown to users.
func statusMessage(rep *collector.Report) string {
	switch {
	case rep.Warning != "":
		return fmt.Sprintf("⚠️ %s for %s", rep.Warning, rep.URL)
	case rep.AppendErr != nil:
		return fmt.Sprintf("❌ Found %d colleges but could not append them: %v", len(rep.Colleges), rep.AppendErr)
	case rep.Append != nil:
		return fmt.Sprintf("✅ Appended %d colleges to sheet %q", rep.Append.Rows, rep.Append.SheetTitle)
	default:
		return fmt.Sprintf("✅ Found %d colleges (no sheet URL given, nothing appended)", len(rep.Colleges))
	}
}

func printStatus(w io.Writer, rep *collector.Report) {
	fmt.Fprintln(w, statusMessage(rep))
}
