// Package flows contains pure-function orchestrators for the Manager's
// session transitions.
//
// Each flow function (RunLogin, RunLogout, RunRestore, RunRemoteLogin)
// accepts a typed dependency struct and reports what happened in a result
// value. The Manager owns locking, in-memory state, notifications, audit and
// metrics; flows only sequence decode, transport and persistence calls.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goSecurity (to avoid import cycles).
//   - Emit notifications, audit events or metrics.
package flows
