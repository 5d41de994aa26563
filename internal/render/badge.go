package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Badge classes. Severity values are used verbatim as classes, so anything
// outside this list is still a valid class.
const (
	ClassHigh    = "high"
	ClassMed     = "med"
	ClassLow     = "low"
	ClassNeutral = ""
)

// Badge is a small labelled tag.
type Badge struct {
	Class string `json:"class"`
	Text  string `json:"text"`
}

// NewBadge pairs a class with its label.
func NewBadge(class, text string) Badge {
	return Badge{Class: class, Text: text}
}

// BadgeStyle returns the terminal style for a class. Unknown classes get the
// neutral style.
func BadgeStyle(class string) lipgloss.Style {
	switch class {
	case ClassHigh:
		return badgeHighStyle
	case ClassMed:
		return badgeMedStyle
	case ClassLow:
		return badgeLowStyle
	default:
		return badgeNeutralStyle
	}
}

// Render draws the badge for a terminal.
func (b Badge) Render() string {
	return BadgeStyle(b.Class).Render(b.Text)
}

// RenderBadges draws a row of badges separated by a space.
func RenderBadges(badges []Badge) string {
	parts := make([]string, 0, len(badges)*2)
	for i, b := range badges {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, b.Render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
