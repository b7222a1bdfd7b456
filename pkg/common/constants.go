package common

const (
	RequestIDHeader  = "X-Request-Id"
	ForwardedFor     = "X-Forwarded-For"
	APIVersionHeader = "X-API-Version"

	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
	RateLimitScopeHeader     = "X-RateLimit-Scope"
	RetryAfterHeader         = "Retry-After"
)
