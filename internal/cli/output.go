package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sprite-ai/redline/internal/model"
)

// UI prints colored status lines.
type UI struct {
	Out    io.Writer
	ErrOut io.Writer
}

// NewUI creates a UI writing to out and errOut.
func NewUI(out, errOut io.Writer) *UI {
	return &UI{Out: out, ErrOut: errOut}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	red           = color.New(color.FgHiRed).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	cyan          = color.New(color.FgHiCyan).SprintFunc()
)

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

// SeverityColor colors a severity label the way the badges do.
func SeverityColor(sev model.Severity) string {
	switch sev {
	case model.SeverityHigh:
		return red(string(sev))
	case model.SeverityMed:
		return yellow(string(sev))
	case model.SeverityLow:
		return cyan(string(sev))
	default:
		return string(sev)
	}
}
