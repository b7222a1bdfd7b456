package throttle

import "strings"

// Request is the part of an HTTP request the throttle looks at.
type Request struct {
	// UserID is the authenticated principal; empty for anonymous callers.
	UserID        string
	Authenticated bool
	ForwardedFor  string
	RemoteAddr    string
}

// IdentityResolver derives the key a window is stored under.
type IdentityResolver func(req Request) string

// ResolveIdentity returns the user id for authenticated requests and the
// client IP otherwise. It never fails; the result may be empty.
func ResolveIdentity(req Request) string {
	if req.Authenticated {
		return req.UserID
	}
	return ResolveClientIP(req)
}

// ResolveClientIP takes the first X-Forwarded-For entry, falling back to the
// transport address.
func ResolveClientIP(req Request) string {
	if req.ForwardedFor != "" {
		first, _, _ := strings.Cut(req.ForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return strings.TrimSpace(req.RemoteAddr)
}
