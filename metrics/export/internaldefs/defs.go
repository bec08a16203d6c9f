package internaldefs

import (
	"github.com/MrEthical07/stackguard"
)

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   stackguard.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID   stackguard.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: stackguard.MetricLoginSuccess, Name: "stackguard_login_success_total", Help: "Successful logins."},
	{ID: stackguard.MetricLoginFailure, Name: "stackguard_login_failure_total", Help: "Failed logins, all causes."},
	{ID: stackguard.MetricLoginRateLimited, Name: "stackguard_login_rate_limited_total", Help: "Logins denied by the per-IP limiter."},
	{ID: stackguard.MetricLoginLocked, Name: "stackguard_login_locked_total", Help: "Logins denied because the account was locked."},
	{ID: stackguard.MetricAuthenticateSuccess, Name: "stackguard_authenticate_success_total", Help: "Accepted access tokens."},
	{ID: stackguard.MetricAuthenticateFailure, Name: "stackguard_authenticate_failure_total", Help: "Rejected access tokens, all causes."},
	{ID: stackguard.MetricAuthenticateRevoked, Name: "stackguard_authenticate_revoked_total", Help: "Access tokens rejected as revoked."},
	{ID: stackguard.MetricRefreshSuccess, Name: "stackguard_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: stackguard.MetricRefreshFailure, Name: "stackguard_refresh_failure_total", Help: "Failed refresh rotations."},
	{ID: stackguard.MetricRefreshReplay, Name: "stackguard_refresh_replay_total", Help: "Superseded refresh tokens presented again."},
	{ID: stackguard.MetricLogout, Name: "stackguard_logout_total", Help: "Logout operations."},
	{ID: stackguard.MetricAccountLocked, Name: "stackguard_account_locked_total", Help: "Accounts moved into the locked state."},
	{ID: stackguard.MetricAuthorizeDenied, Name: "stackguard_authorize_denied_total", Help: "Authorization guard denials."},
	{ID: stackguard.MetricDegraded, Name: "stackguard_degraded_total", Help: "Cache failures absorbed by fail-open or fail-closed policy."},
}

var HistogramDefs = []HistogramDef{
	{ID: stackguard.MetricAuthenticateLatency, Name: "stackguard_authenticate_latency_seconds", Help: "Authenticate latency."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds; the last
// engine bucket is +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf included, for exporters that
// flatten buckets into separate instruments.
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

// NormalizeBuckets pads or truncates raw to the engine's eight buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
