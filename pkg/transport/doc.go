// Package transport defines the handler interfaces and middleware chain for
// the umleit HTTP/SSE transport layer.
//
// The transport layer bridges external clients and the translation gateway.
// It deserializes incoming requests into the wire types defined in pkg/api,
// dispatches them for processing, and serializes responses back to the
// client in either synchronous (JSON) or streaming (SSE) format.
//
// # Handler Interfaces
//
// ChatCompleter is the single handler contract between the transport layer
// and the gateway: it receives a ChatCompletionRequest and writes the result
// (streamed chunks or a complete response) to a ChatWriter. The ChatWriter
// interface abstracts streaming and non-streaming output, allowing the
// handler to emit SSE chunks or complete JSON responses without knowing the
// underlying transport protocol.
//
// # Middleware
//
// The middleware chain wraps ChatCompleter with cross-cutting concerns.
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID), and structured logging via log/slog. Custom middleware
// can be added for application-specific concerns.
//
// # Zero Dependencies
//
// This package uses only Go standard library packages, consistent with
// the project's zero-external-dependency constraint for the protocol core.
// Structured logging uses log/slog.
package transport
