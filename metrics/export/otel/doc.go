// Package otel publishes Manager metrics as OpenTelemetry observable
// instruments. The remote login histogram becomes a cumulative
// "<name>_bucket" gauge with one point per "le" attribute, plus a
// "<name>_count" gauge.
package otel
