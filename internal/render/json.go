package render

import (
	"encoding/json"
	"io"
)

// JSON writes the normalized view. The raw payload is embedded as JSON when
// it parses, and as a string otherwise.
func JSON(w io.Writer, v View, raw []byte) error {
	type out struct {
		Failed  bool            `json:"failed"`
		Summary []Badge         `json:"summary"`
		Issues  []Card          `json:"issues"`
		Raw     json.RawMessage `json:"raw"`
	}

	o := out{
		Failed:  v.Failed,
		Summary: v.Summary,
		Issues:  v.Cards,
		Raw:     raw,
	}
	if o.Issues == nil {
		o.Issues = []Card{}
	}
	if len(raw) == 0 || !json.Valid(raw) {
		quoted, _ := json.Marshal(string(raw))
		o.Raw = quoted
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}
