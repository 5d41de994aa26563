// Package input holds the contract text being reviewed. Typing, uploading a
// file and loading a sample all write the same buffer, and the last write
// wins.
package input

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sprite-ai/redline/internal/logging"
	"github.com/sprite-ai/redline/internal/samples"
)

// Buffer is the single authoritative contract text of a session.
type Buffer struct {
	mu   sync.RWMutex
	text string
	log  zerolog.Logger
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{log: logging.Component("input")}
}

// Set replaces the buffer contents.
func (b *Buffer) Set(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}

// Text returns the current contents.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.Set("")
}

// LoadFile replaces the buffer with the contents of path. An empty path or a
// file that cannot be read leaves the buffer untouched and returns false.
func (b *Buffer) LoadFile(path string) bool {
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		b.log.Warn().Err(err).Str("path", path).Msg("ignoring unreadable file")
		return false
	}
	b.Set(string(data))
	b.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("file loaded")
	return true
}

// LoadReader replaces the buffer with everything read from r.
func (b *Buffer) LoadReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	b.Set(string(data))
	return nil
}

// LoadSample replaces the buffer with the named sample, which is empty when
// the loader could not fetch it.
func (b *Buffer) LoadSample(ctx context.Context, loader samples.Loader, name string) {
	text := loader.Load(ctx, name)
	b.Set(text)
	b.log.Debug().Str("sample", name).Int("bytes", len(text)).Msg("sample loaded")
}
