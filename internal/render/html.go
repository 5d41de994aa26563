package render

import (
	"bytes"
	"html/template"
	"io"
)

var fragments = template.Must(template.New("summary").Parse(
	`{{range .Summary}}<span class="badge {{.Class}}">{{.Text}}</span>{{end}}`,
))

func init() {
	template.Must(fragments.New("issues").Parse(
		`{{range .Cards}}<div class="issue">` +
			`<div class="title"><span class="badge {{.Severity.Class}}">{{.Severity.Text}}</span> <strong>{{.ID}}</strong></div>` +
			`<div class="desc">{{.Message}}</div>` +
			`<div class="muted">{{.Rationale}}</div>` +
			`{{if .Reference}}<div class="muted ref">{{.Reference}}</div>{{end}}` +
			`{{if .Fix}}<details><summary>Suggested fix</summary><pre>{{.Fix}}</pre></details>{{end}}` +
			`</div>{{end}}`,
	))

	template.Must(fragments.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>redline review</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  .badge { display: inline-block; padding: 2px 8px; margin-right: 6px; border-radius: 6px; background: #44475a; font-weight: bold; }
  .badge.high { background: #ff5555; color: #282a36; }
  .badge.med { background: #ffb86c; color: #282a36; }
  .badge.low { background: #8be9fd; color: #282a36; }
  .issue { background: #343746; padding: 12px 16px; border-radius: 8px; margin: 12px 0; }
  .desc { margin-top: 6px; }
  .muted { color: #6272a4; margin-top: 4px; }
  pre { background: #282a36; padding: 8px; border-radius: 4px; white-space: pre-wrap; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
<h1>Contract Review</h1>
<div id="summary">{{template "summary" .}}</div>
<div id="issues">{{template "issues" .}}</div>
<details><summary>Raw response</summary><pre id="raw">{{.Raw}}</pre></details>
<footer>Generated by <strong>redline</strong></footer>
</body>
</html>
`))
}

// Fragments are the three HTML views of a result, ready to drop into the
// page's #summary, #issues and #raw elements.
type Fragments struct {
	Summary string `json:"summary"`
	Issues  string `json:"issues"`
	Raw     string `json:"raw"`
}

// HTMLFragments renders v as escaped HTML snippets.
func HTMLFragments(v View) (Fragments, error) {
	var summary, issues bytes.Buffer
	if err := fragments.ExecuteTemplate(&summary, "summary", v); err != nil {
		return Fragments{}, err
	}
	if err := fragments.ExecuteTemplate(&issues, "issues", v); err != nil {
		return Fragments{}, err
	}
	return Fragments{
		Summary: summary.String(),
		Issues:  issues.String(),
		Raw:     template.HTMLEscapeString(v.Raw),
	}, nil
}

// HTML writes v as a standalone HTML page.
func HTML(w io.Writer, v View) error {
	return fragments.ExecuteTemplate(w, "page", v)
}
