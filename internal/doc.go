// Package internal holds implementation packages that are private to
// goSecurity.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - flows: login, logout, restore and remote-login orchestration over a Store
//   - logging: slog handler construction and attribute helpers
//   - metrics: lock-free counters and the remote login latency histogram
//   - notify: auth change fan-out to callbacks and channels
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSecurity API.
//   - Be imported by any package outside the goSecurity module.
package internal
