// Package api defines the wire types for the OpenAI Chat Completions
// surface that umleit exposes to its callers.
//
// This package provides the request and response shapes for
// POST /v1/chat/completions (both the single-shot JSON response and the
// streamed chunk form), the GET /v1/models listing, the error envelope,
// request validation, and completion ID generation.
//
// The package has zero external dependencies (Go standard library only)
// and performs no I/O. All types produce JSON compatible with the OpenAI
// Chat Completions wire format, enabling client library compatibility.
//
// Core types:
//   - [ChatCompletionRequest]: Client request for a chat completion
//   - [ChatCompletionResponse]: Complete non-streaming response
//   - [ChatCompletionChunk]: One server-sent event in a streaming response
//   - [ModelList]: Static model listing
//   - [APIError]: Structured error with type, code, param, and message
package api
