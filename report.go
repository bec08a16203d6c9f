package stackguard

import "github.com/MrEthical07/stackguard/internal/security"

// SecurityReport summarizes the protections an Engine runs with.
type SecurityReport = security.Report

// SecurityReport describes the engine's effective configuration, with
// warnings for anything weaker than the defaults.
func (e *Engine) SecurityReport() SecurityReport {
	if !e.ready() {
		return security.BuildReport(security.ReportInput{})
	}
	_, discarded := e.audit.(NoOpSink)
	c := e.config
	return security.BuildReport(security.ReportInput{
		SigningAlgorithm:  "HS256",
		AccessTTL:         e.tokens.AccessTTL(),
		RefreshTTL:        e.tokens.RefreshTTL(),
		RateLimitEnabled:  c.RateLimit.Enabled,
		MaxLoginAttempts:  c.RateLimit.MaxAttempts,
		RateLimitWindow:   c.RateLimit.Window,
		LockoutEnabled:    c.Lockout.Enabled,
		LockoutThreshold:  c.Lockout.Threshold,
		LockoutDuration:   c.Lockout.Duration,
		AuditEnabled:      c.Audit.Enabled,
		AuditSinkAttached: e.audit != nil && !discarded,
	})
}
