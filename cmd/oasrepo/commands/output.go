package commands

import (
	"bytes"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/cliutil"
	"github.com/erraggy/oasrepo/internal/config"
	"github.com/erraggy/oasrepo/internal/fileutil"
	"github.com/erraggy/oasrepo/validation"
)

func marshal(doc *document.Map, format string) ([]byte, error) {
	if format == config.FormatYAML {
		return document.MarshalYAML(doc)
	}
	return document.MarshalJSON(doc)
}

// writeOutput writes data to name, creating parent directories.
func writeOutput(name string, data []byte) error {
	_, err := fileutil.WriteOutput(name, data)
	return err
}

func printCreated(w io.Writer, name string) {
	cliutil.Writef(w, "Created %s\n", cliutil.FileStyle.Render(name))
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		cliutil.Writef(w, "%s %s\n", cliutil.WarnStyle.Render("warning:"), msg)
	}
}

// printIssues renders validation findings as a table.
func printIssues(w io.Writer, title string, style lipgloss.Style, issues []validation.Issue) {
	if len(issues) == 0 {
		return
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Path", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, issue := range issues {
		table.Append([]string{issue.Path, issue.Message})
	}
	table.Render()

	cliutil.Writef(w, "%s\n%s\n", style.Render(title), buf.String())
}
