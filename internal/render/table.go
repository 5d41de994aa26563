package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table writes the summary line followed by one row per issue.
func Table(w io.Writer, v View) error {
	for i, b := range v.Summary {
		if i > 0 {
			if _, err := io.WriteString(w, "  "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, b.Text); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if v.Failed || len(v.Cards) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header([]string{"SEVERITY", "ID", "MESSAGE", "FIX"})
	for _, c := range v.Cards {
		fix := ""
		if c.HasFix() {
			fix = "yes"
		}
		if err := table.Append([]string{c.Severity.Text, c.ID, c.Message, fix}); err != nil {
			return err
		}
	}
	return table.Render()
}
