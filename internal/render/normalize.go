package render

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/sprite-ai/redline/internal/model"
)

// Failure builds an error outcome whose raw payload is {"error": msg}.
func Failure(msg string) model.Outcome {
	e := model.ErrorOutcome{Error: msg}
	raw, _ := json.Marshal(e)
	return model.Outcome{Kind: model.KindError, Err: &e, Raw: raw}
}

// Normalize projects a parsed JSON payload onto the outcome union. Absent or
// mistyped fields fall back to zero values instead of failing, so anything
// the service sends can be rendered.
func Normalize(raw []byte) model.Outcome {
	if !gjson.ValidBytes(raw) {
		// Callers classify invalid bodies first; keep the raw bytes anyway.
		o := Failure(MsgRequestFailed)
		o.Raw = raw
		return o
	}

	root := gjson.ParseBytes(raw)
	if root.Type == gjson.Null {
		return model.Outcome{Kind: model.KindEmpty, Raw: raw}
	}

	if root.IsObject() {
		if e := root.Get("error"); e.Exists() && e.Type != gjson.Null {
			return model.Outcome{
				Kind: model.KindError,
				Err:  &model.ErrorOutcome{Error: e.String()},
				Raw:  raw,
			}
		}
	}

	res := &model.ReviewResult{
		Summary: model.Summary{
			High: int(root.Get("summary.high").Int()),
			Med:  int(root.Get("summary.med").Int()),
			Low:  int(root.Get("summary.low").Int()),
		},
	}

	if score := root.Get("risk_score"); score.Exists() && score.Type != gjson.Null {
		res.HasRiskScore = true
		if score.Type == gjson.String {
			res.RiskScore = score.String()
		} else {
			res.RiskScore = score.Raw
		}
	}

	if issues := root.Get("issues"); issues.IsArray() {
		issues.ForEach(func(_, item gjson.Result) bool {
			res.Issues = append(res.Issues, model.Issue{
				ID:            item.Get("id").String(),
				Severity:      model.Severity(item.Get("severity").String()),
				Message:       item.Get("message").String(),
				Rationale:     item.Get("rationale").String(),
				SuggestedFix:  item.Get("suggested_fix").String(),
				MockReference: item.Get("mock_reference").String(),
			})
			return true
		})
	}

	return model.Outcome{Kind: model.KindResult, Result: res, Raw: raw}
}
