package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/redline/internal/render"
)

// Style definitions.
var (
	// Panes
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.ColorBorder).
			Padding(0, 1)

	paneFocusedStyle = paneStyle.
				BorderForeground(render.ColorPurple)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(render.ColorBlue).
			Bold(true)

	// Header
	titleStyle = lipgloss.NewStyle().
			Foreground(render.ColorRed).
			Bold(true)

	jurisdictionStyle = lipgloss.NewStyle().
				Foreground(render.ColorYellow)

	// File prompt
	promptStyle = lipgloss.NewStyle().
			Foreground(render.ColorPurple).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(render.ColorDim)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(render.ColorPurple)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(render.ColorFg).
			Background(render.ColorBgLight).
			Padding(0, 1)

	statusLoadingStyle = lipgloss.NewStyle().
				Foreground(render.ColorOrange).
				Background(render.ColorBgLight).
				Bold(true)

	// Help
	helpHeaderStyle = lipgloss.NewStyle().
			Foreground(render.ColorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(render.ColorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(render.ColorYellow)
)
