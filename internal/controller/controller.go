// Package controller runs the review lifecycle of one session: it guards the
// idle/loading/rendered state, submits the buffer to the review service and
// classifies whatever comes back into exactly one outcome.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/sprite-ai/redline/internal/client"
	"github.com/sprite-ai/redline/internal/input"
	"github.com/sprite-ai/redline/internal/logging"
	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
	"github.com/sprite-ai/redline/internal/samples"
)

//go:generate mockgen -destination=../../mocks/mock_reviewer.go -package=mocks . Reviewer

// Reviewer submits a review request. A non-nil error means no response was
// received at all.
type Reviewer interface {
	Review(ctx context.Context, req model.ReviewRequest) (*client.Response, error)
}

// Messages rendered by the controller itself.
const (
	MsgEmptyInput   = "Paste or upload contract text first."
	MsgNetworkError = "Network error"
	MsgInvalidJSON  = "Invalid JSON response"
)

var (
	// ErrInFlight is returned for any action attempted while a review is loading.
	ErrInFlight = errors.New("review in progress")
	// ErrEmptyInput is returned by Begin when there is nothing to review.
	ErrEmptyInput = errors.New("no contract text")
)

// Pending is a review accepted by Begin and not yet run.
type Pending struct {
	Request model.ReviewRequest
}

// Controller owns one session's state. It is safe for concurrent use, but a
// session is expected to drive it from one goroutine at a time.
type Controller struct {
	svc     Reviewer
	buf     *input.Buffer
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	state   model.UIState
	outcome model.Outcome
	view    render.View
}

// New creates an idle controller. A timeout of zero leaves review calls
// unbounded.
func New(svc Reviewer, buf *input.Buffer, timeout time.Duration) *Controller {
	if buf == nil {
		buf = input.NewBuffer()
	}
	return &Controller{
		svc:     svc,
		buf:     buf,
		timeout: timeout,
		log:     logging.Component("controller"),
		view:    render.Cleared(),
	}
}

// Buffer returns the session's text buffer.
func (c *Controller) Buffer() *input.Buffer {
	return c.buf
}

// State returns the current lifecycle state.
func (c *Controller) State() model.UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Controls reports which actions are enabled. Everything is disabled while a
// review is loading.
func (c *Controller) Controls() model.Controls {
	enabled := c.State() != model.StateLoading
	return model.Controls{
		Review:    enabled,
		Clear:     enabled,
		LoadRisky: enabled,
		LoadGood:  enabled,
	}
}

// Outcome returns the last rendered outcome.
func (c *Controller) Outcome() model.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// View returns what is currently on screen.
func (c *Controller) View() render.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Begin accepts a review of the current buffer. Empty input renders the
// validation error immediately and returns ErrEmptyInput without touching the
// network.
func (c *Controller) Begin(jurisdiction string) (Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == model.StateLoading {
		return Pending{}, ErrInFlight
	}

	text := strings.TrimSpace(c.buf.Text())
	if text == "" {
		c.renderLocked(render.Failure(MsgEmptyInput))
		return Pending{}, ErrEmptyInput
	}

	c.state = model.StateLoading
	c.log.Debug().Str("jurisdiction", jurisdiction).Int("text_len", len(text)).Msg("review started")
	return Pending{Request: model.ReviewRequest{Text: text, Jurisdiction: jurisdiction}}, nil
}

// Run performs an accepted review and renders its outcome. The controller
// leaves the loading state on every path, including a panicking Reviewer.
func (c *Controller) Run(ctx context.Context, p Pending) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("review call panicked")
			out = render.Failure(orDefault(fmt.Sprint(r), MsgNetworkError))
		}
		c.mu.Lock()
		c.renderLocked(out)
		c.mu.Unlock()
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.svc.Review(ctx, p.Request)
	out = Classify(resp, err)

	c.log.Debug().
		Str("outcome", out.Kind.String()).
		Dur("elapsed", time.Since(start)).
		Msg("review finished")
	return out
}

// Submit runs Begin and Run back to back.
func (c *Controller) Submit(ctx context.Context, jurisdiction string) (model.Outcome, error) {
	p, err := c.Begin(jurisdiction)
	if err != nil {
		if errors.Is(err, ErrEmptyInput) {
			return c.Outcome(), nil
		}
		return model.Outcome{}, err
	}
	return c.Run(ctx, p), nil
}

// Clear empties the buffer and the results and returns to idle.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == model.StateLoading {
		return ErrInFlight
	}
	c.buf.Reset()
	c.outcome = model.Outcome{}
	c.view = render.Cleared()
	c.state = model.StateIdle
	return nil
}

// SetText records typed text. Typing is never disabled.
func (c *Controller) SetText(text string) {
	c.buf.Set(text)
}

// LoadSample replaces the buffer with a named sample.
func (c *Controller) LoadSample(ctx context.Context, loader samples.Loader, name string) error {
	if c.State() == model.StateLoading {
		return ErrInFlight
	}
	c.buf.LoadSample(ctx, loader, name)
	return nil
}

// LoadFile replaces the buffer with a file's contents. It reports whether the
// buffer changed; unreadable files are ignored.
func (c *Controller) LoadFile(path string) (bool, error) {
	if c.State() == model.StateLoading {
		return false, ErrInFlight
	}
	return c.buf.LoadFile(path), nil
}

func (c *Controller) renderLocked(o model.Outcome) {
	c.outcome = o
	c.view = render.Build(o)
	c.state = model.StateRendered
}

// Classify turns a service reply into exactly one outcome. Transport errors
// come first, then bodies that are not JSON; everything else is normalized.
func Classify(resp *client.Response, err error) model.Outcome {
	if err != nil {
		return render.Failure(orDefault(err.Error(), MsgNetworkError))
	}
	if resp == nil {
		return render.Failure(MsgNetworkError)
	}
	if !gjson.ValidBytes(resp.Body) {
		return render.Failure(MsgInvalidJSON)
	}
	return render.Normalize(resp.Body)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
