// Package audit implements async event dispatching for session transitions.
//
// # Components
//
//   - [Sink] - interface for event consumers (channel, JSON writer, slog, no-op).
//   - [Dispatcher] - buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event] - structured audit record with ID, timestamp, type, strategy, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit - that responsibility belongs to the Manager.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Record credentials or identity payloads.
//   - Import goSecurity or any sibling internal package.
package audit
