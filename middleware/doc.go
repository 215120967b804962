// Package middleware exposes HTTP middleware that gates handlers on the
// session held by a goSecurity.Manager.
//
// # Guards
//
//   - [Guard] runs an arbitrary [Check] against the session state.
//   - [RequireAuthenticated] admits any authenticated session.
//   - [RequirePermission], [RequireAnyPermission] and
//     [RequireAllPermissions] add permission checks on top.
//
// A [ManagerSource] resolves the Manager for each request, so a server can
// hold one Manager per request (for example backed by a cookie store) or
// share one with [Static]. Rejections answer 401 when no session exists and
// 403 when the session lacks a permission. A source error answers 500.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Manager queries. It does not
// establish or clear sessions; that stays with the handler.
//
// # What this package must NOT do
//
//   - Decode or verify credentials (the Manager owns that).
//   - Write credential values into responses or logs.
package middleware
