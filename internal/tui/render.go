package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
)

// refreshResults rebuilds the results pane from the controller's view and
// records where each card starts.
func (m *Model) refreshResults() {
	content, offsets := m.renderResults(m.results.Width)
	m.cardOffsets = offsets
	m.results.SetContent(content)
}

func (m Model) renderResults(width int) (string, []int) {
	v := m.ctrl.View()

	var lines []string
	add := func(block string) {
		lines = append(lines, strings.Split(block, "\n")...)
	}

	// The raw section is always present; r expands it.
	if m.showRaw {
		add(paneTitleStyle.Render("▾ Raw response"))
		add(render.ColorizeJSON(v.Raw))
	} else {
		add(hintStyle.Render("▸ Raw response (r to expand)"))
	}
	add("")

	if v.Empty() {
		if m.ctrl.State() == model.StateIdle {
			add(hintStyle.Render("Nothing reviewed yet. Press C-s to review the contract."))
		}
		return strings.Join(lines, "\n"), nil
	}

	add(render.RenderBadges(v.Summary))

	offsets := make([]int, 0, len(v.Cards))
	for i, c := range v.Cards {
		if i == 0 {
			add("")
		}
		offsets = append(offsets, len(lines))
		selected := m.focus == focusResults && i == m.cursor
		add(render.RenderCard(c, width, m.expanded[i], selected))
	}

	if !v.Failed && len(v.Cards) == 0 {
		add("")
		add(lipgloss.NewStyle().Foreground(render.ColorGreen).Render("No issues found."))
	}

	return strings.Join(lines, "\n"), offsets
}
