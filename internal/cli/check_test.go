package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
)

const (
	highVerdict  = `{"summary":{"high":1,"med":1,"low":0},"risk_score":72,"issues":[{"id":"NDA-3","severity":"high","message":"Unlimited term","rationale":"No end date.","suggested_fix":"Limit to 3 years."},{"id":"NDA-7","severity":"med","message":"Broad scope","rationale":"Covers all information."}]}`
	medVerdict   = `{"summary":{"high":0,"med":0,"low":2},"risk_score":10,"issues":[]}`
	cleanVerdict = `{"summary":{"high":0,"med":0,"low":0},"risk_score":0,"issues":[]}`
)

// fakeService answers /review with a fixed status and body and records the
// last request it saw.
type fakeService struct {
	*httptest.Server

	mu   sync.Mutex
	last model.ReviewRequest
}

func newFakeService(t *testing.T, status int, body string) *fakeService {
	t.Helper()
	fs := &fakeService{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`{"status":"ok","rules_loaded":7}`))
		case "/review":
			fs.mu.Lock()
			_ = json.NewDecoder(r.Body).Decode(&fs.last)
			fs.mu.Unlock()
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeService) request() model.ReviewRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.last
}

// writeConfig writes a config file pinning the jurisdiction so the user's
// own config never leaks into a test.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("review:\n  jurisdiction: texas\n"), 0o644))
	return path
}

func writeContract(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestCheckExitCode(t *testing.T) {
	result := func(s model.Summary, issues ...model.Issue) model.Outcome {
		return model.Outcome{Kind: model.KindResult, Result: &model.ReviewResult{Summary: s, Issues: issues}}
	}

	tests := []struct {
		name string
		o    model.Outcome
		want int
	}{
		{"clean", result(model.Summary{}), ExitClean},
		{"low only", result(model.Summary{Low: 3}), ExitWarnings},
		{"med only", result(model.Summary{Med: 1}), ExitWarnings},
		{"high count", result(model.Summary{High: 1}), ExitHighRisk},
		{"high issue without count", result(model.Summary{}, model.Issue{ID: "X", Severity: model.SeverityHigh}), ExitHighRisk},
		{"unknown severity issue", result(model.Summary{}, model.Issue{ID: "X", Severity: "critical"}), ExitWarnings},
		{"error outcome", render.Failure("boom"), ExitFailed},
		{"empty outcome", model.Outcome{Kind: model.KindEmpty}, ExitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkExitCode(tt.o))
		})
	}
}

func TestCheckCommand_HighRiskJSON(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, highVerdict)
	path := writeContract(t, "  This Agreement is perpetual.\n")

	out, _, err := execute(t, "", "check", path, "--config", writeConfig(t), "--api-url", svc.URL, "-f", "json")
	require.Error(t, err)
	assert.Equal(t, ExitHighRisk, ExitCode(err))

	var got struct {
		Summary []render.Badge `json:"summary"`
		Issues  []render.Card  `json:"issues"`
		Failed  bool           `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Failed)
	require.Len(t, got.Summary, 4)
	assert.Equal(t, "Score: 72", got.Summary[3].Text)
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "NDA-3", got.Issues[0].ID)

	req := svc.request()
	assert.Equal(t, "This Agreement is perpetual.", req.Text)
	assert.Equal(t, "texas", req.Jurisdiction)
}

func TestCheckCommand_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   int
	}{
		{"clean", http.StatusOK, cleanVerdict, ExitClean},
		{"warnings", http.StatusOK, medVerdict, ExitWarnings},
		{"high", http.StatusOK, highVerdict, ExitHighRisk},
		{"server error", http.StatusInternalServerError, `{"error":"rules not loaded"}`, ExitFailed},
		{"invalid json", http.StatusOK, `<html>`, ExitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService(t, tt.status, tt.body)
			path := writeContract(t, "Some clause.")

			_, _, err := execute(t, "", "check", path, "--config", writeConfig(t), "--api-url", svc.URL)
			assert.Equal(t, tt.want, ExitCode(err))
		})
	}
}

func TestCheckCommand_FailureMessage(t *testing.T) {
	svc := newFakeService(t, http.StatusBadRequest, `{"error":"text too long"}`)
	path := writeContract(t, "Some clause.")

	out, errOut, err := execute(t, "", "check", path, "--config", writeConfig(t), "--api-url", svc.URL)
	assert.Equal(t, ExitFailed, ExitCode(err))
	assert.Contains(t, out, "text too long")
	assert.Contains(t, errOut, "review failed: text too long")
}

func TestCheckCommand_Stdin(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, cleanVerdict)

	out, _, err := execute(t, "Governing law: Delaware.\n", "check", "-", "--config", writeConfig(t), "--api-url", svc.URL, "-j", "delaware", "-f", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")

	req := svc.request()
	assert.Equal(t, "Governing law: Delaware.", req.Text)
	assert.Equal(t, "delaware", req.Jurisdiction)
}

func TestCheckCommand_Sample(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, cleanVerdict)

	_, _, err := execute(t, "", "check", "--sample", "nda_good", "--config", writeConfig(t), "--api-url", svc.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(svc.request().Text, "MUTUAL NON-DISCLOSURE AGREEMENT"))
}

func TestCheckCommand_EmptyInput(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, cleanVerdict)
	path := writeContract(t, "   \n\t")

	out, _, err := execute(t, "", "check", path, "--config", writeConfig(t), "--api-url", svc.URL)
	assert.Equal(t, ExitFailed, ExitCode(err))
	assert.Contains(t, out, "Paste or upload contract text first.")
	assert.Empty(t, svc.request().Text, "no request should reach the service")
}

func TestCheckCommand_BadArgs(t *testing.T) {
	cfgPath := writeConfig(t)

	_, _, err := execute(t, "", "check", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to check")

	_, _, err = execute(t, "", "check", "a.txt", "--sample", "nda_good", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")

	_, _, err = execute(t, "", "check", "a.txt", "-f", "pdf", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "pdf"`)
}

func TestHealthCommand(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, cleanVerdict)

	out, _, err := execute(t, "", "health", "--config", writeConfig(t), "--api-url", svc.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "API OK • Rules: 7")
}

func TestHealthCommand_Offline(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, cleanVerdict)
	url := svc.URL
	svc.Close()

	_, errOut, err := execute(t, "", "health", "--config", writeConfig(t), "--api-url", url)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, errOut, "API Offline")
}

func TestConfigCommand(t *testing.T) {
	cfgPath := writeConfig(t)

	out, _, err := execute(t, "", "config", "--config", cfgPath, "--api-url", "http://review.local:8080")
	require.NoError(t, err)
	assert.Contains(t, out, "jurisdiction: texas")
	assert.Contains(t, out, "base_url: http://review.local:8080")
	assert.Contains(t, out, "timeout: 30s")

	out, _, err = execute(t, "", "config", "path", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)
}
