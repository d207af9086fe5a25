package transport

import (
	"context"

	"github.com/umleit-dev/umleit/pkg/api"
)

// ChatCompleter handles the core chat-completion operation. The
// implementation receives a request and writes the result (streamed chunks
// or a complete response) to the ChatWriter.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req *api.ChatCompletionRequest, w ChatWriter) error
}

// ChatCompleterFunc is an adapter that allows using an ordinary function
// as a ChatCompleter.
type ChatCompleterFunc func(ctx context.Context, req *api.ChatCompletionRequest, w ChatWriter) error

// CreateChatCompletion calls f(ctx, req, w).
func (f ChatCompleterFunc) CreateChatCompletion(ctx context.Context, req *api.ChatCompletionRequest, w ChatWriter) error {
	return f(ctx, req, w)
}

// ChatWriter abstracts streaming and non-streaming output for the handler.
// The transport layer creates a ChatWriter for each request and provides it
// to the handler. The handler uses WriteChunk for streaming responses or
// WriteResponse for non-streaming responses.
//
// WriteChunk and WriteResponse are mutually exclusive on a single writer
// instance. Calling WriteChunk after WriteResponse (or vice versa) returns
// an error. A chunk carrying a finish reason is terminal: calling WriteChunk
// again afterwards also returns an error.
type ChatWriter interface {
	// WriteChunk sends a single streaming chunk and flushes it. A terminal
	// chunk (finish reason set) closes the stream; the transport follows it
	// with the end-of-stream sentinel.
	WriteChunk(ctx context.Context, chunk api.ChatCompletionChunk) error

	// WriteResponse sends a complete non-streaming response. Returns an
	// error if called after WriteChunk was called on this writer.
	WriteResponse(ctx context.Context, resp *api.ChatCompletionResponse) error

	// WriteError terminates a streaming response with an error marker
	// instead of a clean terminal chunk. Content already emitted is not
	// retracted. Returns an error if streaming has not started.
	WriteError(ctx context.Context, apiErr *api.APIError) error

	// Flush ensures buffered data is sent to the client. Returns an error
	// if the client has disconnected.
	Flush() error
}
