package common

import "time"

const (
	StatsCacheTTL    = 1 * time.Minute
	ActivityCacheTTL = 5 * time.Minute

	XForwardedForHeader = "X-Forwarded-For"

	UnknownIP  = "unknown"
	InvalidIP  = "0.0.0.0"
	MaskedNone = ""
)
