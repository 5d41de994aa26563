package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Pretty indents a JSON payload with two spaces, keeping key order. Missing
// payloads print as null; bytes that are not JSON are returned unchanged.
func Pretty(raw []byte) string {
	if len(raw) == 0 {
		return "null"
	}
	if !gjson.ValidBytes(raw) {
		return string(raw)
	}
	return strings.TrimRight(string(pretty.PrettyOptions(raw, prettyOptions)), "\n")
}

// HighlightedLine represents a line with syntax-highlighted tokens.
type HighlightedLine struct {
	Tokens []Token
}

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex color, empty for default
}

// Plain returns the concatenated plain text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// HighlightJSON tokenises a pretty-printed payload. Returns one
// HighlightedLine per input line.
func HighlightJSON(text string) []HighlightedLine {
	lines := strings.Split(text, "\n")

	lexer := lexers.Get("json")
	if lexer == nil {
		return plainLines(lines)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{}

	for _, token := range iterator.Tokens() {
		// Split tokens that span multiple lines
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	// The lexer may emit a trailing newline token; keep the line count stable.
	if len(result) > len(lines) {
		result = result[:len(lines)]
	}
	for len(result) < len(lines) {
		result = append(result, HighlightedLine{})
	}

	return result
}

// ColorizeJSON renders a pretty-printed payload with terminal colors.
func ColorizeJSON(text string) string {
	hl := HighlightJSON(text)
	out := make([]string, len(hl))
	for i, line := range hl {
		var b strings.Builder
		for _, tok := range line.Tokens {
			if tok.Color == "" {
				b.WriteString(tok.Text)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return result
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
