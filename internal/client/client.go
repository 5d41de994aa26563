// Package client talks to the contract review service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sprite-ai/redline/internal/logging"
	"github.com/sprite-ai/redline/internal/model"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// ErrTooLarge is returned for responses longer than maxBody.
var ErrTooLarge = errors.New("response too large")

// Response is a raw HTTP reply. Interpreting the body is the caller's job.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client is a review service client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		log:        logging.Component("client"),
	}
}

// Review posts req to /review. A non-nil error means the request never got a
// response (network, timeout, cancellation); any HTTP status is a Response.
func (c *Client) Review(ctx context.Context, req model.ReviewRequest) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding review request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/review", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.log.Debug().
		Int("text_len", len(req.Text)).
		Str("jurisdiction", req.Jurisdiction).
		Msg("submitting review")
	return c.do(httpReq)
}

// Root fetches GET / which reports service readiness.
func (c *Client) Root(ctx context.Context) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("url", req.URL.String()).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(data) > maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBody)
	}

	c.log.Debug().
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("response received")
	return &Response{Status: resp.StatusCode, Body: data}, nil
}
