// Package auth provides pluggable authentication for the umleit gateway.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity found), No (credentials
// invalid), or Abstain (can't handle). A configurable default voter decides
// when all authenticators abstain.
//
// Auth is implemented as HTTP middleware, keeping it decoupled from gateway
// logic. The middleware can also lift the caller's bearer token into the
// request context as the upstream credential when key passthrough is on.
package auth
