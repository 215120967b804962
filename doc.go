// Package goSecurity provides a session manager for applications that act on
// behalf of a single user: it holds the current credential, an optional
// identity and an optional permission list, mirrors them into a pluggable
// store, and tells subscribers when the authentication state flips.
//
// A [Manager] is created through [Builder.Build] and is safe for concurrent
// use. Credentials are treated as opaque unless the jwt strategy is
// configured, in which case the identity is read from the token payload.
// Tokens are never verified here; verification belongs to the server that
// issued them.
//
// # Architecture boundaries
//
// goSecurity is the public surface. It exposes [Manager], [Builder], [Config]
// and value types ([State], [Identity], [AuthChanged], MetricsSnapshot).
// Flow orchestration, audit dispatch, notification fan-out and metric
// counters live under internal/ and are never exported directly.
//
// # What this package must NOT do
//
//   - Log or audit credential values.
//   - Verify token signatures or enforce expiry.
//   - Import any sub-package that re-imports goSecurity (no import cycles).
package goSecurity
