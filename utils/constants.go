package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for dashboard access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// LinkTokenBytes is the entropy, in bytes, of an opaque client-link token
	LinkTokenBytes = 32

	// LinkCacheTTL bounds how long a resolved client link may be served from
	// cache before a fresh expiry/revocation check against the store
	LinkCacheTTL = 1 * time.Minute
)

// Pagination defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Audit retention
const (
	// DefaultAuditRetentionYears is the fallback for the GDPR cleanup job
	DefaultAuditRetentionYears = 5
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
