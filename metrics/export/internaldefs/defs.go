package internaldefs

import (
	"github.com/tokengate-dev/tokengate"
)

// CounterDef maps a metric ID to its exported name and help text.
type CounterDef struct {
	ID   tokengate.MetricID
	Name string
	Help string
}

// HistogramDef maps a histogram metric ID to its exported name and
// help text.
type HistogramDef struct {
	ID   tokengate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter, in exposition order.
var CounterDefs = []CounterDef{
	{ID: tokengate.MetricVerifyAuthenticated, Name: "tokengate_verify_authenticated_total", Help: "Requests resolved to the authenticated state."},
	{ID: tokengate.MetricVerifyAnonymous, Name: "tokengate_verify_anonymous_total", Help: "Requests carrying no transport-level token."},
	{ID: tokengate.MetricVerifyRejected, Name: "tokengate_verify_rejected_total", Help: "Primary tokens rejected by verification."},
	{ID: tokengate.MetricModifierRejected, Name: "tokengate_modifier_rejected_total", Help: "Valid primary tokens rejected for a missing or invalid modifier token."},
	{ID: tokengate.MetricVerifyThrottled, Name: "tokengate_verify_throttled_total", Help: "Token presentations rejected by the invalid-token throttle."},
	{ID: tokengate.MetricAuthenticateSuccess, Name: "tokengate_authenticate_success_total", Help: "Successful authenticate operations."},
	{ID: tokengate.MetricAuthenticateFailure, Name: "tokengate_authenticate_failure_total", Help: "Failed authenticate operations."},
	{ID: tokengate.MetricDeauthenticate, Name: "tokengate_deauthenticate_total", Help: "Deauthenticate operations."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: tokengate.MetricVerifyLatency, Name: "tokengate_verify_latency_seconds", Help: "Verify latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a raw snapshot slice into the fixed bucket
// array, tolerating short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// required by exposition formats.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
