package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FixLabel heads the collapsible suggested-fix region.
const FixLabel = "Suggested fix"

// CardTitle is the severity badge followed by the issue ID.
func CardTitle(c Card) string {
	return c.Severity.Render() + " " + cardIDStyle.Render(c.ID)
}

// RenderCard draws one issue card. The fix region is collapsed unless
// expanded is set; cards without a fix have no such region.
func RenderCard(c Card, width int, expanded, selected bool) string {
	lines := []string{CardTitle(c)}
	if c.Message != "" {
		lines = append(lines, cardMessageStyle.Render(c.Message))
	}
	if c.Rationale != "" {
		lines = append(lines, cardMutedStyle.Render(c.Rationale))
	}
	if c.Reference != "" {
		lines = append(lines, cardMutedStyle.Render(c.Reference))
	}
	if c.HasFix() {
		if expanded {
			lines = append(lines, fixToggleStyle.Render("▾ "+FixLabel))
			lines = append(lines, fixBodyStyle.Render(c.Fix))
		} else {
			lines = append(lines, fixToggleStyle.Render("▸ "+FixLabel))
		}
	}

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// TextOptions control Text output.
type TextOptions struct {
	Width       int
	ExpandFixes bool
	ShowRaw     bool
}

// Text writes a terminal rendering of v: optional raw dump, summary badges,
// then the issue cards.
func Text(w io.Writer, v View, opts TextOptions) error {
	var sections []string

	if opts.ShowRaw {
		sections = append(sections,
			sectionHeaderStyle.Render("Raw response"),
			ColorizeJSON(v.Raw),
			"",
		)
	}

	sections = append(sections, RenderBadges(v.Summary))

	if len(v.Cards) > 0 {
		sections = append(sections, "")
		for _, c := range v.Cards {
			sections = append(sections, RenderCard(c, opts.Width, opts.ExpandFixes, false))
		}
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}
