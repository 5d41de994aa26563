package render

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorRed     = lipgloss.Color("#ff5555")
	ColorGreen   = lipgloss.Color("#50fa7b")
	ColorYellow  = lipgloss.Color("#f1fa8c")
	ColorBlue    = lipgloss.Color("#8be9fd")
	ColorPurple  = lipgloss.Color("#bd93f9")
	ColorDim     = lipgloss.Color("#6272a4")
	ColorBg      = lipgloss.Color("#282a36")
	ColorBgLight = lipgloss.Color("#343746")
	ColorFg      = lipgloss.Color("#f8f8f2")
	ColorOrange  = lipgloss.Color("#ffb86c")
	ColorBorder  = lipgloss.Color("#44475a")
)

// Badge styles
var (
	badgeBase = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)

	badgeHighStyle = badgeBase.
			Foreground(ColorBg).
			Background(ColorRed)

	badgeMedStyle = badgeBase.
			Foreground(ColorBg).
			Background(ColorOrange)

	badgeLowStyle = badgeBase.
			Foreground(ColorBg).
			Background(ColorBlue)

	badgeNeutralStyle = badgeBase.
				Foreground(ColorFg).
				Background(ColorBorder)
)

// Card styles
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	cardSelectedStyle = cardStyle.
				BorderForeground(ColorPurple)

	cardIDStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true)

	cardMessageStyle = lipgloss.NewStyle().
				Foreground(ColorFg)

	cardMutedStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	fixToggleStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	fixBodyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			PaddingLeft(2)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true).
				Padding(0, 0, 1, 0)
)
