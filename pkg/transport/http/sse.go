package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/transport"
)

// writerState tracks the state of an SSE chat writer.
type writerState int

const (
	writerIdle      writerState = iota // Initial state, no writes yet
	writerStreaming                    // WriteChunk has been called at least once
	writerCompleted                    // Terminal chunk, response, or error sent
)

// sseChatWriter implements transport.ChatWriter for HTTP responses.
// It handles both streaming (SSE) and non-streaming (JSON) output.
type sseChatWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu    sync.Mutex
	state writerState
}

var _ transport.ChatWriter = (*sseChatWriter)(nil)

// newSSEChatWriter creates a ChatWriter wrapping an http.ResponseWriter.
func newSSEChatWriter(w http.ResponseWriter) *sseChatWriter {
	return &sseChatWriter{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// WriteChunk sends a single SSE chunk formatted as:
//
//	data: {json}\n
//	\n
//
// After a terminal chunk (finish reason set), it also sends:
//
//	data: [DONE]\n
//	\n
func (s *sseChatWriter) WriteChunk(ctx context.Context, chunk api.ChatCompletionChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerCompleted {
		return errors.New("cannot write chunk: writer is completed")
	}

	// First chunk: set SSE headers.
	if s.state == writerIdle {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.state = writerStreaming
	}

	data, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write chunk: %w", err)
	}

	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	if chunk.Terminal() {
		return s.writeDoneLocked()
	}

	return nil
}

// WriteResponse sends a complete non-streaming JSON response.
// This is mutually exclusive with WriteChunk.
func (s *sseChatWriter) WriteResponse(ctx context.Context, resp *api.ChatCompletionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerStreaming {
		return errors.New("cannot write response: streaming has already started")
	}
	if s.state == writerCompleted {
		return errors.New("cannot write response: writer is completed")
	}

	s.w.Header().Set("Content-Type", "application/json")
	s.state = writerCompleted

	if err := json.NewEncoder(s.w).Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}

// WriteError terminates a streaming response with an error payload
// followed by the [DONE] sentinel. Chunks already relayed are not
// retracted; the error envelope is the last data event of the stream.
func (s *sseChatWriter) WriteError(ctx context.Context, apiErr *api.APIError) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != writerStreaming {
		return errors.New("cannot write stream error: streaming has not started")
	}

	data, err := json.Marshal(api.ErrorResponse{Error: apiErr})
	if err != nil {
		return fmt.Errorf("failed to marshal error: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write error: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	return s.writeDoneLocked()
}

// writeDoneLocked emits the end-of-stream sentinel and marks the writer
// completed. Caller must hold s.mu.
func (s *sseChatWriter) writeDoneLocked() error {
	if _, err := fmt.Fprint(s.w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("failed to write [DONE]: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush [DONE]: %w", err)
	}
	s.state = writerCompleted
	return nil
}

// Flush ensures buffered data is sent to the client.
func (s *sseChatWriter) Flush() error {
	return s.rc.Flush()
}

// hasStartedStreaming returns true if at least one SSE chunk has been written.
func (s *sseChatWriter) hasStartedStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == writerStreaming || (s.state == writerCompleted && s.w.Header().Get("Content-Type") == "text/event-stream")
}
