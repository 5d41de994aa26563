// Package render projects review outcomes into displayable views: a raw
// payload dump, a row of summary badges, and one card per issue.
package render

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/redline/internal/model"
)

// Fixed texts shown by the renderer.
const (
	MsgRequestFailed = "Request failed"
	RawCleared       = "—"
	scoreMissing     = "n/a"
)

// View is everything shown for one outcome. Each Build produces a fresh
// View; nothing is carried over from the previous one.
type View struct {
	Raw     string  `json:"raw"`
	Summary []Badge `json:"summary"`
	Cards   []Card  `json:"issues"`
	Failed  bool    `json:"failed"`
}

// Card is one issue in server order.
type Card struct {
	Severity  Badge  `json:"severity"`
	ID        string `json:"id"`
	Message   string `json:"message"`
	Rationale string `json:"rationale"`
	Reference string `json:"reference,omitempty"`
	Fix       string `json:"suggested_fix,omitempty"`
}

// HasFix reports whether the card has an expandable fix region.
func (c Card) HasFix() bool {
	return c.Fix != ""
}

// Build renders o into a View: raw first, then summary, then issues.
func Build(o model.Outcome) View {
	v := View{Raw: Pretty(o.Raw)}

	if o.Failed() || o.Result == nil {
		text := MsgRequestFailed
		if o.Err != nil && o.Err.Error != "" {
			text = o.Err.Error
		}
		v.Failed = true
		v.Summary = []Badge{NewBadge(ClassHigh, text)}
		return v
	}

	r := o.Result
	score := r.RiskScore
	if !r.HasRiskScore {
		score = scoreMissing
	}
	v.Summary = []Badge{
		NewBadge(ClassHigh, fmt.Sprintf("High: %d", r.Summary.High)),
		NewBadge(ClassMed, fmt.Sprintf("Med: %d", r.Summary.Med)),
		NewBadge(ClassLow, fmt.Sprintf("Low: %d", r.Summary.Low)),
		NewBadge(ClassNeutral, "Score: "+score),
	}

	for _, issue := range r.Issues {
		sev := string(issue.Severity)
		v.Cards = append(v.Cards, Card{
			Severity:  NewBadge(sev, strings.ToUpper(sev)),
			ID:        issue.ID,
			Message:   issue.Message,
			Rationale: issue.Rationale,
			Reference: issue.MockReference,
			Fix:       issue.SuggestedFix,
		})
	}
	return v
}

// Cleared is the view after the user clears the session.
func Cleared() View {
	return View{Raw: RawCleared}
}

// Empty reports whether the view has nothing to show besides the raw dump.
func (v View) Empty() bool {
	return len(v.Summary) == 0 && len(v.Cards) == 0
}
