package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/transport"
)

// rawTextWriter implements transport.ChatWriter by emitting the text
// content of each chunk as a bare SSE data event, without the JSON chunk
// envelope. Used by the browser test endpoint, which reads the stream
// with EventSource and appends event data directly to the page.
type rawTextWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu      sync.Mutex
	writing bool
}

var _ transport.ChatWriter = (*rawTextWriter)(nil)

func newRawTextWriter(w http.ResponseWriter) *rawTextWriter {
	return &rawTextWriter{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

func (t *rawTextWriter) WriteChunk(ctx context.Context, chunk api.ChatCompletionChunk) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureHeadersLocked()

	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			if err := t.writeDataLocked(choice.Delta.Content); err != nil {
				return err
			}
		}
	}

	if chunk.Terminal() {
		return t.writeDataLocked("[DONE]")
	}
	return t.rc.Flush()
}

func (t *rawTextWriter) WriteResponse(ctx context.Context, resp *api.ChatCompletionResponse) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureHeadersLocked()
	for _, choice := range resp.Choices {
		if err := t.writeDataLocked(choice.Message.Content); err != nil {
			return err
		}
	}
	return t.writeDataLocked("[DONE]")
}

func (t *rawTextWriter) WriteError(ctx context.Context, apiErr *api.APIError) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureHeadersLocked()
	if err := t.writeDataLocked("Error: " + apiErr.Message); err != nil {
		return err
	}
	return t.writeDataLocked("[DONE]")
}

func (t *rawTextWriter) Flush() error {
	return t.rc.Flush()
}

// started reports whether any output has been produced.
func (t *rawTextWriter) started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writing
}

func (t *rawTextWriter) ensureHeadersLocked() {
	if t.writing {
		return
	}
	t.w.Header().Set("Content-Type", "text/event-stream")
	t.w.Header().Set("Cache-Control", "no-cache")
	t.writing = true
}

// writeDataLocked emits one SSE data event and flushes. Payload newlines
// become multiple data lines of the same event so the framing stays valid.
func (t *rawTextWriter) writeDataLocked(payload string) error {
	for _, line := range strings.Split(payload, "\n") {
		if _, err := fmt.Fprintf(t.w, "data: %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(t.w, "\n"); err != nil {
		return err
	}
	return t.rc.Flush()
}
