// Package health probes the review service once and reports readiness as a
// badge.
package health

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/sprite-ai/redline/internal/client"
	"github.com/sprite-ai/redline/internal/logging"
	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
)

// Badge texts.
const (
	TextChecking = "Checking API…"
	TextOffline  = "API Offline"
)

// Prober fetches the service root.
type Prober interface {
	Root(ctx context.Context) (*client.Response, error)
}

// Monitor holds the result of the last probe.
type Monitor struct {
	prober Prober
	log    zerolog.Logger

	mu     sync.RWMutex
	status model.HealthStatus
	rules  string
}

// NewMonitor returns a monitor in the unknown state.
func NewMonitor(p Prober) *Monitor {
	return &Monitor{
		prober: p,
		log:    logging.Component("health"),
	}
}

// Probe asks the service for its status once and records the answer. The
// service counts as up only on a 2xx reply with a numeric rules_loaded.
func (m *Monitor) Probe(ctx context.Context) model.HealthStatus {
	status, rules := m.probe(ctx)

	m.mu.Lock()
	m.status = status
	m.rules = rules
	m.mu.Unlock()

	return status
}

func (m *Monitor) probe(ctx context.Context) (model.HealthStatus, string) {
	resp, err := m.prober.Root(ctx)
	if err != nil {
		m.log.Info().Err(err).Msg("review service unreachable")
		return model.HealthOffline, ""
	}
	if !resp.OK() {
		m.log.Info().Int("status", resp.Status).Msg("review service not ready")
		return model.HealthOffline, ""
	}

	body := gjson.ParseBytes(resp.Body)
	if !gjson.ValidBytes(resp.Body) || !body.IsObject() {
		m.log.Info().Msg("review service root is not a JSON object")
		return model.HealthOffline, ""
	}
	rules := body.Get("rules_loaded")
	if rules.Type != gjson.Number {
		m.log.Info().Str("rules_loaded", rules.Raw).Msg("review service did not report rules")
		return model.HealthOffline, ""
	}

	m.log.Debug().Str("rules_loaded", rules.Raw).Msg("review service ok")
	return model.HealthOK, rules.Raw
}

// Status returns the last probe result.
func (m *Monitor) Status() model.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Badge renders the current status.
func (m *Monitor) Badge() render.Badge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return BadgeFor(m.status, m.rules)
}

// BadgeFor renders a status with the rule count reported by the service.
func BadgeFor(status model.HealthStatus, rules string) render.Badge {
	switch status {
	case model.HealthOK:
		return render.NewBadge(render.ClassNeutral, "API OK • Rules: "+rules)
	case model.HealthOffline:
		return render.NewBadge(render.ClassHigh, TextOffline)
	default:
		return render.NewBadge(render.ClassNeutral, TextChecking)
	}
}
