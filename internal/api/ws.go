package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sprite-ai/redline/internal/controller"
	"github.com/sprite-ai/redline/internal/health"
	"github.com/sprite-ai/redline/internal/input"
	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
	"github.com/sprite-ai/redline/internal/samples"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // the page may be served from another local port
	},
}

// WebSocket message types from client.
const (
	wsMsgSetText         = "set_text"
	wsMsgSetJurisdiction = "set_jurisdiction"
	wsMsgLoadSample      = "load_sample"
	wsMsgUpload          = "upload"
	wsMsgReview          = "review"
	wsMsgClear           = "clear"
)

// WebSocket message types to client.
const (
	wsMsgHealth   = "health"
	wsMsgState    = "state"
	wsMsgRendered = "rendered"
	wsMsgError    = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsText is the payload for "set_text" and "upload" messages.
type wsText struct {
	Text string `json:"text"`
	Name string `json:"name,omitempty"`
}

// wsJurisdiction is the payload for "set_jurisdiction" messages.
type wsJurisdiction struct {
	Jurisdiction string `json:"jurisdiction"`
}

// wsSample is the payload for "load_sample" messages.
type wsSample struct {
	Name string `json:"name"`
}

// wsStateResponse reports the session state after every action. The page
// only replaces its editor when TextChanged is set, so text typed while a
// review is running is never overwritten by a stale buffer.
type wsStateResponse struct {
	SessionID     string         `json:"session_id"`
	State         string         `json:"state"`
	Controls      model.Controls `json:"controls"`
	Text          string         `json:"text"`
	TextChanged   bool           `json:"text_changed"`
	Jurisdiction  string         `json:"jurisdiction"`
	Jurisdictions []string       `json:"jurisdictions"`
}

// wsRenderedResponse carries the HTML fragments of a rendered outcome.
type wsRenderedResponse struct {
	render.Fragments
	Failed bool `json:"failed"`
}

// session is one browser tab. It owns its own buffer and controller; the
// read loop handles one message at a time.
type session struct {
	id           string
	conn         *websocket.Conn
	ctrl         *controller.Controller
	loader       samples.Loader
	jurisdiction string
	choices      []string
	log          zerolog.Logger

	writeMu sync.Mutex
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sess := s.newSession(conn)
	sess.log.Debug().Msg("session opened")
	defer sess.log.Debug().Msg("session closed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess.sendState(true)
	if s.deps.Prober != nil {
		go sess.probe(ctx, s.deps.Prober)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sess.sendError("invalid message format")
			continue
		}
		sess.handle(ctx, msg)
	}
}

func (s *Server) newSession(conn *websocket.Conn) *session {
	id := uuid.NewString()
	return &session{
		id:           id,
		conn:         conn,
		ctrl:         controller.New(s.deps.Reviewer, input.NewBuffer(), s.deps.Timeout),
		loader:       s.deps.Loader,
		jurisdiction: s.deps.Jurisdiction,
		choices:      s.deps.Jurisdictions,
		log:          s.log.With().Str("session", id).Logger(),
	}
}

func (sess *session) handle(ctx context.Context, msg wsMessage) {
	switch msg.Type {
	case wsMsgSetText:
		var req wsText
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			sess.sendError("invalid set_text data")
			return
		}
		sess.ctrl.SetText(req.Text)

	case wsMsgUpload:
		var req wsText
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			sess.sendError("invalid upload data")
			return
		}
		if sess.ctrl.State() == model.StateLoading {
			sess.sendError(controller.ErrInFlight.Error())
			return
		}
		sess.log.Debug().Str("file", req.Name).Int("bytes", len(req.Text)).Msg("file uploaded")
		sess.ctrl.SetText(req.Text)
		sess.sendState(true)

	case wsMsgSetJurisdiction:
		var req wsJurisdiction
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.Jurisdiction == "" {
			sess.sendError("invalid set_jurisdiction data")
			return
		}
		sess.jurisdiction = req.Jurisdiction
		sess.sendState(false)

	case wsMsgLoadSample:
		var req wsSample
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			sess.sendError("invalid load_sample data")
			return
		}
		if err := sess.ctrl.LoadSample(ctx, sess.loader, req.Name); err != nil {
			sess.sendError(err.Error())
			return
		}
		sess.sendState(true)

	case wsMsgReview:
		sess.review(ctx)

	case wsMsgClear:
		if err := sess.ctrl.Clear(); err != nil {
			sess.sendError(err.Error())
			return
		}
		sess.sendRendered()
		sess.sendState(true)

	default:
		sess.sendError("unknown message type: " + msg.Type)
	}
}

func (sess *session) review(ctx context.Context) {
	p, err := sess.ctrl.Begin(sess.jurisdiction)
	switch {
	case errors.Is(err, controller.ErrEmptyInput):
		sess.sendRendered()
		sess.sendState(false)
		return
	case err != nil:
		sess.sendError(err.Error())
		return
	}

	sess.sendState(false)
	sess.ctrl.Run(ctx, p)
	sess.sendRendered()
	sess.sendState(false)
}

func (sess *session) probe(ctx context.Context, p health.Prober) {
	mon := health.NewMonitor(p)
	sess.send(wsMsgHealth, healthResponse{Status: mon.Status().String(), Badge: mon.Badge()})
	status := mon.Probe(ctx)
	sess.send(wsMsgHealth, healthResponse{Status: status.String(), Badge: mon.Badge()})
}

func (sess *session) sendState(textChanged bool) {
	sess.send(wsMsgState, wsStateResponse{
		SessionID:     sess.id,
		State:         sess.ctrl.State().String(),
		Controls:      sess.ctrl.Controls(),
		Text:          sess.ctrl.Buffer().Text(),
		TextChanged:   textChanged,
		Jurisdiction:  sess.jurisdiction,
		Jurisdictions: sess.choices,
	})
}

func (sess *session) sendRendered() {
	v := sess.ctrl.View()
	frags, err := render.HTMLFragments(v)
	if err != nil {
		sess.log.Error().Err(err).Msg("rendering fragments")
		sess.sendError("rendering failed")
		return
	}
	sess.send(wsMsgRendered, wsRenderedResponse{Fragments: frags, Failed: v.Failed})
}

func (sess *session) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		sess.log.Error().Err(err).Msg("ws marshal")
		return
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if err := sess.conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		sess.log.Debug().Err(err).Msg("ws write")
	}
}

func (sess *session) sendError(errMsg string) {
	sess.send(wsMsgError, map[string]string{"message": errMsg})
}
