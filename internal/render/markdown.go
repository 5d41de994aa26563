package render

import (
	"fmt"
	"io"
	"strings"
)

// Markdown writes v as GitHub-flavoured markdown. Fixes sit in collapsed
// <details> blocks.
func Markdown(w io.Writer, v View) error {
	var b strings.Builder

	b.WriteString("## Contract Review\n\n")

	badges := make([]string, 0, len(v.Summary))
	for _, s := range v.Summary {
		badges = append(badges, "**"+s.Text+"**")
	}
	b.WriteString(strings.Join(badges, " | "))
	b.WriteString("\n\n")

	if !v.Failed {
		if len(v.Cards) == 0 {
			b.WriteString("No issues found.\n")
		}
		for _, c := range v.Cards {
			fmt.Fprintf(&b, "### `%s` %s\n\n", c.Severity.Text, c.ID)
			if c.Message != "" {
				fmt.Fprintf(&b, "%s\n\n", c.Message)
			}
			if c.Rationale != "" {
				fmt.Fprintf(&b, "_%s_\n\n", c.Rationale)
			}
			if c.Reference != "" {
				fmt.Fprintf(&b, "%s\n\n", c.Reference)
			}
			if c.HasFix() {
				fmt.Fprintf(&b, "<details><summary>%s</summary>\n\n```\n%s\n```\n\n</details>\n\n", FixLabel, c.Fix)
			}
		}
	}

	fmt.Fprintf(&b, "<details><summary>Raw response</summary>\n\n```json\n%s\n```\n\n</details>\n", v.Raw)

	_, err := io.WriteString(w, b.String())
	return err
}
