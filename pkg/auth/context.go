package auth

import "context"

// identityKey is a private type for the identity context key.
type identityKey struct{}

// SetIdentity stores the authenticated identity in the context.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the authenticated identity.
// Returns nil if no identity is set (unauthenticated or NoOp).
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}

// upstreamKeyKey is a private type for the upstream credential context key.
type upstreamKeyKey struct{}

// SetUpstreamKey stores a caller-supplied upstream credential in the
// context. Set by the passthrough middleware when key passthrough is
// enabled; the gateway forwards it to the provider.
func SetUpstreamKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, upstreamKeyKey{}, key)
}

// UpstreamKeyFromContext retrieves a caller-supplied upstream credential.
// Returns an empty string when the configured credential should be used.
func UpstreamKeyFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(upstreamKeyKey{}).(string); ok {
		return v
	}
	return ""
}
