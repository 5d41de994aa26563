// Package samples provides the canned contracts offered by the "load sample"
// actions. Every loader fails soft: a sample that cannot be fetched loads as
// an empty string.
package samples

import (
	"context"
	"embed"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sprite-ai/redline/internal/logging"
)

// Sample names bound to the two load triggers.
const (
	NameRisky = "nda_risky"
	NameGood  = "nda_good"
)

// maxSample caps the size of a fetched sample.
const maxSample = 4 << 20

//go:embed samples/*.txt
var embedded embed.FS

// FS returns the embedded samples, laid out as samples/<name>.txt.
func FS() fs.FS {
	return embedded
}

// Path returns the resource path of a sample, relative to a base URL or FS root.
func Path(name string) string {
	return "samples/" + name + ".txt"
}

// Names lists the samples bound to UI triggers, risky first.
func Names() []string {
	return []string{NameRisky, NameGood}
}

// Loader fetches sample text by name. Load never fails; any problem yields "".
type Loader interface {
	Load(ctx context.Context, name string) string
}

// HTTPLoader fetches <BaseURL>/samples/<name>.txt.
type HTTPLoader struct {
	BaseURL    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewHTTPLoader creates a loader for samples hosted under baseURL.
func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		log:        logging.Component("samples"),
	}
}

func (l *HTTPLoader) Load(ctx context.Context, name string) string {
	u := l.BaseURL + "/" + Path(url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		l.log.Warn().Err(err).Str("sample", name).Msg("bad sample request")
		return ""
	}
	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		l.log.Warn().Err(err).Str("sample", name).Msg("sample fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		l.log.Warn().Int("status", resp.StatusCode).Str("sample", name).Msg("sample not available")
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSample))
	if err != nil {
		l.log.Warn().Err(err).Str("sample", name).Msg("reading sample")
		return ""
	}
	return string(body)
}

// FSLoader reads samples/<name>.txt from FS.
type FSLoader struct {
	FS fs.FS
}

// NewFSLoader returns a loader backed by the embedded samples.
func NewFSLoader() *FSLoader {
	return &FSLoader{FS: embedded}
}

func (l *FSLoader) Load(_ context.Context, name string) string {
	if l.FS == nil || strings.ContainsAny(name, `/\`) {
		return ""
	}
	data, err := fs.ReadFile(l.FS, Path(name))
	if err != nil {
		log := logging.Component("samples")
		log.Warn().Err(err).Str("sample", name).Msg("sample not found")
		return ""
	}
	return string(data)
}

// NewLoader picks the HTTP loader when baseURL is set and the embedded
// samples otherwise.
func NewLoader(baseURL string) Loader {
	if baseURL == "" {
		return NewFSLoader()
	}
	return NewHTTPLoader(baseURL)
}
