package internaldefs

import (
	"strconv"

	goSecurity "github.com/MrEthical07/goSecurity"
)

// CounterDef binds a counter slot to its exported name.
type CounterDef struct {
	ID   goSecurity.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram slot to its exported name.
type HistogramDef struct {
	ID   goSecurity.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter exported by the Prometheus and OTel exporters.
var CounterDefs = []CounterDef{
	{ID: goSecurity.MetricLoginSuccess, Name: "gosecurity_login_success_total", Help: "Successful local logins."},
	{ID: goSecurity.MetricLoginFailure, Name: "gosecurity_login_failure_total", Help: "Rejected or failed local logins."},
	{ID: goSecurity.MetricLogout, Name: "gosecurity_logout_total", Help: "Logout operations."},
	{ID: goSecurity.MetricRemoteLoginSuccess, Name: "gosecurity_remote_login_success_total", Help: "Successful remote logins."},
	{ID: goSecurity.MetricRemoteLoginFailure, Name: "gosecurity_remote_login_failure_total", Help: "Failed remote logins."},
	{ID: goSecurity.MetricTokenDecodeFailure, Name: "gosecurity_token_decode_failure_total", Help: "Tokens the active strategy could not decode."},
	{ID: goSecurity.MetricNotificationDropped, Name: "gosecurity_notification_dropped_total", Help: "Auth change notifications dropped by full channel subscribers."},
}

// HistogramDefs lists every histogram exported by the Prometheus and OTel exporters.
var HistogramDefs = []HistogramDef{
	{ID: goSecurity.MetricRemoteLoginLatency, Name: "gosecurity_remote_login_latency_seconds", Help: "Remote login round-trip latency."},
}

// AuditDroppedName is the counter name for audit events lost to backpressure.
const AuditDroppedName = "gosecurity_audit_dropped_total"

// AuditDroppedHelp is the help text for AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// HistogramBounds are the finite upper bounds, in seconds, of the first
// seven latency buckets. The eighth bucket is +Inf.
var HistogramBounds = []float64{
	0.01,
	0.025,
	0.05,
	0.1,
	0.25,
	0.5,
	1,
}

// BucketLabels returns the "le" label of every bucket, +Inf included, in
// bucket order.
func BucketLabels() []string {
	labels := make([]string, 0, len(HistogramBounds)+1)
	for _, b := range HistogramBounds {
		labels = append(labels, strconv.FormatFloat(b, 'g', -1, 64))
	}
	return append(labels, "+Inf")
}

// NormalizeBuckets copies raw into a fixed-size bucket array, zero-filling
// missing entries and ignoring extra ones.
func NormalizeBuckets(raw []uint64) [goSecurity.HistogramBucketCount]uint64 {
	var out [goSecurity.HistogramBucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [goSecurity.HistogramBucketCount]uint64) [goSecurity.HistogramBucketCount]uint64 {
	var out [goSecurity.HistogramBucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
