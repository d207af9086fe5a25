// Package gateway implements the translation gateway between the Chat
// Completions surface and the upstream provider.
//
// The gateway is a pure relay: it validates an incoming request, maps it
// into the provider's request shape, invokes the provider, and reshapes
// the reply (or relays the reply stream chunk by chunk, preserving
// upstream order) back into Chat Completions form. It holds no state
// across requests and performs no retries.
package gateway
