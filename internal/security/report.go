package security

import "time"

// Report summarizes the protections an engine was built with.
type Report struct {
	SigningAlgorithm   string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	RefreshRotation    bool
	RateLimitingActive bool
	MaxLoginAttempts   int
	RateLimitWindow    time.Duration
	LockoutActive      bool
	LockoutThreshold   int
	LockoutDuration    time.Duration
	AuditActive        bool
	// Warnings lists settings that weaken the defaults.
	Warnings []string
}

type ReportInput struct {
	SigningAlgorithm  string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	RateLimitEnabled  bool
	MaxLoginAttempts  int
	RateLimitWindow   time.Duration
	LockoutEnabled    bool
	LockoutThreshold  int
	LockoutDuration   time.Duration
	AuditEnabled      bool
	AuditSinkAttached bool
}

const (
	longAccessTTL   = 24 * time.Hour
	loginBudgetWarn = 20
)

func BuildReport(input ReportInput) Report {
	rateLimiting := input.RateLimitEnabled &&
		input.MaxLoginAttempts > 0 &&
		input.RateLimitWindow > 0
	lockout := input.LockoutEnabled &&
		input.LockoutThreshold > 0 &&
		input.LockoutDuration > 0

	r := Report{
		SigningAlgorithm:   input.SigningAlgorithm,
		AccessTTL:          input.AccessTTL,
		RefreshTTL:         input.RefreshTTL,
		RefreshRotation:    true,
		RateLimitingActive: rateLimiting,
		LockoutActive:      lockout,
		AuditActive:        input.AuditEnabled && input.AuditSinkAttached,
	}
	if rateLimiting {
		r.MaxLoginAttempts = input.MaxLoginAttempts
		r.RateLimitWindow = input.RateLimitWindow
	}
	if lockout {
		r.LockoutThreshold = input.LockoutThreshold
		r.LockoutDuration = input.LockoutDuration
	}

	if !rateLimiting {
		r.Warnings = append(r.Warnings, "per-IP login rate limiting is off")
	} else if input.MaxLoginAttempts > loginBudgetWarn {
		r.Warnings = append(r.Warnings, "per-IP login budget is unusually high")
	}
	if !lockout {
		r.Warnings = append(r.Warnings, "account lockout is off")
	}
	if input.AccessTTL > longAccessTTL {
		r.Warnings = append(r.Warnings, "access tokens live longer than a day")
	}
	if !r.AuditActive {
		r.Warnings = append(r.Warnings, "audit events are discarded")
	}
	return r
}
