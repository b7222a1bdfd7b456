package common

type contextKey string

const (
	RequestIDKey     contextKey = "request_id"
	UserIDContextKey contextKey = "user_id"
	ClaimsContextKey contextKey = "claims"
	APIVersionKey    contextKey = "api_version"
)
