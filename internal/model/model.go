// Package model defines the core data types shared across redline.
package model

// Severity tags an issue. The review service is expected to send one of the
// named values, but anything else is carried through untouched.
type Severity string

const (
	SeverityHigh Severity = "high"
	SeverityMed  Severity = "med"
	SeverityLow  Severity = "low"
)

// ReviewRequest is the body of POST /review.
type ReviewRequest struct {
	Text         string `json:"text"`
	Jurisdiction string `json:"jurisdiction"`
}

// Issue is one flagged clause returned by the review service.
type Issue struct {
	ID            string   `json:"id"`
	Severity      Severity `json:"severity"`
	Message       string   `json:"message"`
	Rationale     string   `json:"rationale"`
	SuggestedFix  string   `json:"suggested_fix,omitempty"`
	MockReference string   `json:"mock_reference,omitempty"`
}

// HasFix reports whether the issue carries a suggested fix.
func (i Issue) HasFix() bool {
	return i.SuggestedFix != ""
}

// Summary holds per-severity issue counts.
type Summary struct {
	High int `json:"high"`
	Med  int `json:"med"`
	Low  int `json:"low"`
}

// Total returns the sum of all counts.
func (s Summary) Total() int {
	return s.High + s.Med + s.Low
}

// ReviewResult is a successful verdict. RiskScore keeps the wire text as-is.
type ReviewResult struct {
	Summary      Summary `json:"summary"`
	RiskScore    string  `json:"risk_score"`
	HasRiskScore bool    `json:"-"`
	Issues       []Issue `json:"issues"`
}

// ErrorOutcome is a failed submission, whatever the cause.
type ErrorOutcome struct {
	Error string `json:"error"`
}

// OutcomeKind discriminates Outcome.
type OutcomeKind int

const (
	KindEmpty OutcomeKind = iota // payload was null or missing
	KindResult
	KindError
)

func (k OutcomeKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindResult:
		return "result"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one submission. Raw is the exact payload
// shown in the debug dump.
type Outcome struct {
	Kind   OutcomeKind
	Result *ReviewResult
	Err    *ErrorOutcome
	Raw    []byte
}

// Failed reports whether the outcome should render as an error.
func (o Outcome) Failed() bool {
	return o.Kind != KindResult
}

// UIState is the lifecycle state of a review session.
type UIState int

const (
	StateIdle UIState = iota
	StateLoading
	StateRendered
)

func (s UIState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// Controls reports which user actions are currently enabled.
type Controls struct {
	Review    bool `json:"review"`
	Clear     bool `json:"clear"`
	LoadRisky bool `json:"load_risky"`
	LoadGood  bool `json:"load_good"`
}

// AllEnabled reports whether every action is enabled.
func (c Controls) AllEnabled() bool {
	return c.Review && c.Clear && c.LoadRisky && c.LoadGood
}

// AnyEnabled reports whether at least one action is enabled.
func (c Controls) AnyEnabled() bool {
	return c.Review || c.Clear || c.LoadRisky || c.LoadGood
}

// HealthStatus is the point-in-time readiness of the review service.
type HealthStatus int

const (
	HealthUnknown HealthStatus = iota
	HealthOK
	HealthOffline
)

func (h HealthStatus) String() string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthOffline:
		return "offline"
	default:
		return "unknown"
	}
}
