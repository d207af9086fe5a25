package provider

import "context"

// Provider abstracts the upstream chat backend. The interface is
// protocol-agnostic: the adapter handles its own backend protocol
// internally and exposes only a complete and a stream capability.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "poe").
	Name() string

	// Complete performs non-streaming inference: one blocking call, one
	// complete reply.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Stream performs streaming inference. The returned channel receives
	// Event values and is closed by the provider when the stream completes,
	// errors, or the context is cancelled. The sequence is lazy, finite,
	// and non-restartable; it must be consumed at most once.
	Stream(ctx context.Context, req *Request) (<-chan Event, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}
