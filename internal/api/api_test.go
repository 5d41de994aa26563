package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/redline/internal/client"
	"github.com/sprite-ai/redline/internal/controller"
	"github.com/sprite-ai/redline/internal/render"
)

const testVerdict = `{"summary":{"high":1,"med":2,"low":0},"risk_score":42,"issues":[{"id":"C-1","severity":"high","message":"Missing indemnity cap","suggested_fix":"Cap <b>liability</b>."}]}`

// newReviewService fakes the upstream review service.
func newReviewService(t *testing.T) *httptest.Server {
	t.Helper()
	svc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`{"status":"ok","rules_loaded":7}`))
		case "/review":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if strings.TrimSpace(body["text"]) == "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"text is required"}`))
				return
			}
			_, _ = w.Write([]byte(testVerdict))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(svc.Close)
	return svc
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c := client.New(newReviewService(t).URL)
	return New(":0", Deps{
		Reviewer:      c,
		Prober:        c,
		Jurisdictions: []string{"delaware", "texas"},
		Jurisdiction:  "delaware",
		Timeout:       5 * time.Second,
	})
}

func TestHealthzEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	if w.Code != http.StatusOK {
		t.Errorf("expected status to be kept, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
}

func TestIndexAndStatic(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `id="api-status"`) {
		t.Error("expected page to contain the status badge")
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for app.js, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "new WebSocket") {
		t.Error("expected app.js to open a websocket")
	}
}

func TestSampleEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/samples/nda_good.txt", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "NON-DISCLOSURE") {
		t.Error("expected sample contract text")
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/samples/missing.txt", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestServiceHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Status != "ok" || resp.Badge.Text != "API OK • Rules: 7" {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestReviewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(reviewRequest{Text: "some contract"})
	req := httptest.NewRequest(http.MethodPost, "/api/review", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Failed  bool           `json:"failed"`
		Summary []render.Badge `json:"summary"`
		Issues  []render.Card  `json:"issues"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Failed {
		t.Error("expected a successful review")
	}
	if len(resp.Summary) != 4 || resp.Summary[3].Text != "Score: 42" {
		t.Errorf("unexpected summary %+v", resp.Summary)
	}
	if len(resp.Issues) != 1 || resp.Issues[0].ID != "C-1" {
		t.Errorf("unexpected issues %+v", resp.Issues)
	}
}

func TestReviewEndpointEmptyText(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader(`{"text":"   "}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var resp struct {
		Failed  bool           `json:"failed"`
		Summary []render.Badge `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if !resp.Failed || len(resp.Summary) != 1 || resp.Summary[0].Text != controller.MsgEmptyInput {
		t.Errorf("expected validation error, got %+v", resp)
	}
}

func TestReviewEndpointInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func dialSession(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	raw, _ := json.Marshal(data)
	if err := conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntil reads messages until one of msgType arrives and decodes it into v.
// Health pushes arrive asynchronously and are skipped unless asked for.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if err == io.EOF {
				t.Fatalf("connection closed waiting for %s", msgType)
			}
			t.Fatalf("read waiting for %s: %v", msgType, err)
		}
		if msg.Type != msgType {
			continue
		}
		if v != nil {
			if err := json.Unmarshal(msg.Data, v); err != nil {
				t.Fatalf("decode %s: %v", msgType, err)
			}
		}
		return
	}
}

func TestWebSocketReviewSession(t *testing.T) {
	conn := dialSession(t, newTestServer(t))

	var state wsStateResponse
	readUntil(t, conn, wsMsgState, &state)
	if state.State != "idle" || !state.Controls.AllEnabled() {
		t.Fatalf("unexpected initial state %+v", state)
	}
	if state.SessionID == "" || state.Jurisdiction != "delaware" {
		t.Errorf("expected session id and default jurisdiction, got %+v", state)
	}

	sendMsg(t, conn, wsMsgSetText, wsText{Text: "some contract"})
	sendMsg(t, conn, wsMsgReview, nil)

	readUntil(t, conn, wsMsgState, &state)
	if state.State != "loading" || state.Controls.AnyEnabled() {
		t.Errorf("expected loading with controls disabled, got %+v", state)
	}

	var rendered wsRenderedResponse
	readUntil(t, conn, wsMsgRendered, &rendered)
	if rendered.Failed {
		t.Error("expected successful review")
	}
	for _, want := range []string{"High: 1", "Med: 2", "Low: 0", "Score: 42"} {
		if !strings.Contains(rendered.Summary, want) {
			t.Errorf("expected summary to contain %q", want)
		}
	}
	if !strings.Contains(rendered.Issues, "C-1") || !strings.Contains(rendered.Issues, "&lt;b&gt;liability&lt;/b&gt;") {
		t.Errorf("expected escaped issue card, got %s", rendered.Issues)
	}
	if !strings.Contains(rendered.Raw, "&#34;risk_score&#34;: 42") {
		t.Errorf("expected pretty raw payload, got %s", rendered.Raw)
	}

	readUntil(t, conn, wsMsgState, &state)
	if state.State != "rendered" || !state.Controls.AllEnabled() {
		t.Errorf("expected rendered with controls enabled, got %+v", state)
	}
}

func TestWebSocketTypingDuringReview(t *testing.T) {
	conn := dialSession(t, newTestServer(t))

	var state wsStateResponse
	readUntil(t, conn, wsMsgState, &state)
	if !state.TextChanged {
		t.Error("expected the initial state to set the editor")
	}

	sendMsg(t, conn, wsMsgSetText, wsText{Text: "old"})
	sendMsg(t, conn, wsMsgReview, nil)
	sendMsg(t, conn, wsMsgSetText, wsText{Text: "typed while loading"})

	readUntil(t, conn, wsMsgState, &state)
	if state.State != "loading" || state.TextChanged {
		t.Fatalf("expected loading state leaving the editor alone, got %+v", state)
	}
	readUntil(t, conn, wsMsgRendered, nil)
	readUntil(t, conn, wsMsgState, &state)
	if state.State != "rendered" || state.TextChanged {
		t.Fatalf("expected rendered state leaving the editor alone, got %+v", state)
	}

	sendMsg(t, conn, wsMsgReview, nil)
	readUntil(t, conn, wsMsgState, &state)
	if state.Text != "typed while loading" {
		t.Errorf("expected the second review to use the newer text, got %q", state.Text)
	}
}

func TestWebSocketEmptyReview(t *testing.T) {
	conn := dialSession(t, newTestServer(t))
	readUntil(t, conn, wsMsgState, nil)

	sendMsg(t, conn, wsMsgReview, nil)

	var rendered wsRenderedResponse
	readUntil(t, conn, wsMsgRendered, &rendered)
	if !rendered.Failed || !strings.Contains(rendered.Summary, controller.MsgEmptyInput) {
		t.Errorf("expected validation badge, got %+v", rendered)
	}
	if rendered.Issues != "" {
		t.Error("expected no issue cards")
	}
}

func TestWebSocketSampleAndClear(t *testing.T) {
	conn := dialSession(t, newTestServer(t))
	readUntil(t, conn, wsMsgState, nil)

	sendMsg(t, conn, wsMsgLoadSample, wsSample{Name: "nda_risky"})
	var state wsStateResponse
	readUntil(t, conn, wsMsgState, &state)
	if !strings.HasPrefix(state.Text, "MUTUAL NON-DISCLOSURE AGREEMENT") {
		t.Errorf("expected sample text, got %q", state.Text)
	}
	if !state.TextChanged {
		t.Error("expected a loaded sample to replace the editor text")
	}

	sendMsg(t, conn, wsMsgLoadSample, wsSample{Name: "missing"})
	readUntil(t, conn, wsMsgState, &state)
	if state.Text != "" {
		t.Errorf("expected empty text after failed sample, got %q", state.Text)
	}

	sendMsg(t, conn, wsMsgUpload, wsText{Name: "nda.txt", Text: "uploaded"})
	readUntil(t, conn, wsMsgState, &state)
	if state.Text != "uploaded" {
		t.Errorf("expected uploaded text, got %q", state.Text)
	}

	sendMsg(t, conn, wsMsgClear, nil)
	var rendered wsRenderedResponse
	readUntil(t, conn, wsMsgRendered, &rendered)
	if rendered.Raw != render.RawCleared || rendered.Summary != "" || rendered.Issues != "" {
		t.Errorf("expected cleared view, got %+v", rendered)
	}
	readUntil(t, conn, wsMsgState, &state)
	if state.State != "idle" || state.Text != "" {
		t.Errorf("expected idle empty session, got %+v", state)
	}
}

func TestWebSocketJurisdiction(t *testing.T) {
	conn := dialSession(t, newTestServer(t))
	readUntil(t, conn, wsMsgState, nil)

	sendMsg(t, conn, wsMsgSetJurisdiction, wsJurisdiction{Jurisdiction: "texas"})
	var state wsStateResponse
	readUntil(t, conn, wsMsgState, &state)
	if state.Jurisdiction != "texas" {
		t.Errorf("expected texas, got %q", state.Jurisdiction)
	}

	sendMsg(t, conn, wsMsgSetJurisdiction, wsJurisdiction{})
	var errResp map[string]string
	readUntil(t, conn, wsMsgError, &errResp)
	if errResp["message"] == "" {
		t.Error("expected error for empty jurisdiction")
	}
}

func TestWebSocketHealth(t *testing.T) {
	conn := dialSession(t, newTestServer(t))

	var h healthResponse
	for i := 0; i < 2; i++ {
		readUntil(t, conn, wsMsgHealth, &h)
		if h.Status == "ok" {
			break
		}
	}
	if h.Status != "ok" || h.Badge.Text != "API OK • Rules: 7" || h.Badge.Class != "" {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestWebSocketUnknownMessage(t *testing.T) {
	conn := dialSession(t, newTestServer(t))

	sendMsg(t, conn, "bogus", nil)
	var errResp map[string]string
	readUntil(t, conn, wsMsgError, &errResp)
	if !strings.Contains(errResp["message"], "unknown message type") {
		t.Errorf("unexpected error %q", errResp["message"])
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, wsMsgError, &errResp)
	if errResp["message"] != "invalid message format" {
		t.Errorf("unexpected error %q", errResp["message"])
	}
}
