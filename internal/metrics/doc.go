// Package metrics counts session transitions and times remote logins.
//
// Each counter sits in its own cache line. The remote login histogram has
// seven bounded buckets from 10ms to 1s plus an overflow bucket, sized for network
// round trips rather than in-process calls. Writes never allocate, and a
// disabled Metrics ignores them.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation. Metric export
// (Prometheus, OTel) lives in metrics/export/ and reads Snapshot values.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import goSecurity or any sibling package.
//   - Expose global metric registries.
package metrics
