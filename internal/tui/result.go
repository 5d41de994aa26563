package tui

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
)

// Result holds the state of an interactive session when it ended.
type Result struct {
	Jurisdiction string
	Outcome      model.Outcome
	View         render.View
}

func newResult(m Model) *Result {
	return &Result{
		Jurisdiction: m.Jurisdiction(),
		Outcome:      m.ctrl.Outcome(),
		View:         m.ctrl.View(),
	}
}

// Reviewed reports whether the session ended with a rendered outcome.
func (r *Result) Reviewed() bool {
	return len(r.View.Summary) > 0
}

// IssuesWithSeverity returns the cards tagged sev, in server order.
func (r *Result) IssuesWithSeverity(sev model.Severity) []render.Card {
	var out []render.Card
	for _, c := range r.View.Cards {
		if c.Severity.Class == string(sev) {
			out = append(out, c)
		}
	}
	return out
}

// Recap summarises the last outcome in plain text for printing after the
// terminal is restored. It is empty when nothing was reviewed.
func (r *Result) Recap() string {
	if !r.Reviewed() {
		return ""
	}

	var b strings.Builder
	if r.View.Failed {
		fmt.Fprintf(&b, "Last review failed: %s\n", r.View.Summary[0].Text)
		return b.String()
	}

	texts := make([]string, len(r.View.Summary))
	for i, s := range r.View.Summary {
		texts[i] = s.Text
	}
	fmt.Fprintf(&b, "Last review (%s): %s\n", r.Jurisdiction, strings.Join(texts, "  "))

	high := r.IssuesWithSeverity(model.SeverityHigh)
	if len(high) > 0 {
		b.WriteString("\nHigh severity:\n")
		for _, c := range high {
			fmt.Fprintf(&b, "  - %s %s\n", c.ID, c.Message)
		}
	}
	return b.String()
}
