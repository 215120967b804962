package goSecurity

import (
	"io"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/goSecurity/internal/audit"
	internalmetrics "github.com/MrEthical07/goSecurity/internal/metrics"
	"github.com/MrEthical07/goSecurity/permission"
	"github.com/golang-jwt/jwt/v5"
)

// EventAuthChanged is the name under which auth change notifications are
// logged and audited.
const EventAuthChanged = "authChanged"

// Identity is the decoded or caller-supplied user object. A nil Identity
// means none is present.
type Identity map[string]any

// ExpiresAt reads a numeric "exp" claim. The value is informational; the
// Manager never expires sessions on its own.
func (i Identity) ExpiresAt() (time.Time, bool) {
	if i == nil {
		return time.Time{}, false
	}
	exp, err := jwt.MapClaims(i).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Clone returns a deep copy, so callers cannot reach into Manager state.
func (i Identity) Clone() Identity {
	if i == nil {
		return nil
	}
	return Identity(cloneMap(i))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Identity:
		return Identity(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// State is a point-in-time copy of the session.
type State struct {
	Authenticated bool
	Credential    string
	// Identity is nil when absent or when unauthenticated.
	Identity Identity
	// Permissions is nil when the slot was never persisted.
	Permissions permission.Set
}

// AuthChanged is the notification payload: true after a login, false after
// a logout or a failed login that cleared a live session.
type AuthChanged struct {
	Authenticated bool
}

// AuditEvent is the audit record emitted on session transitions.
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink = internalaudit.Sink

// NoOpSink discards audit events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink buffers audit events on a channel.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink writes audit events through a slog.Logger.
type SlogSink = internalaudit.SlogSink

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return internalaudit.NewSlogSink(logger)
}

// MetricID identifies a counter or histogram slot.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess        = internalmetrics.MetricLoginSuccess
	MetricLoginFailure        = internalmetrics.MetricLoginFailure
	MetricLogout              = internalmetrics.MetricLogout
	MetricRemoteLoginSuccess  = internalmetrics.MetricRemoteLoginSuccess
	MetricRemoteLoginFailure  = internalmetrics.MetricRemoteLoginFailure
	MetricTokenDecodeFailure  = internalmetrics.MetricTokenDecodeFailure
	MetricNotificationDropped = internalmetrics.MetricNotificationDropped
	MetricRemoteLoginLatency  = internalmetrics.MetricRemoteLoginLatency

	// HistogramBucketCount is the number of latency buckets, +Inf included.
	HistogramBucketCount = internalmetrics.HistogramBucketCount
)

// MetricsSnapshot is a copy of all counters and histogram buckets.
type MetricsSnapshot = internalmetrics.Snapshot
