package throttle_test

import (
	"testing"

	"github.com/NeuralTrust/ThrottleGate/pkg/app/throttle"
	"github.com/stretchr/testify/assert"
)

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name string
		req  throttle.Request
		want string
	}{
		{
			name: "authenticated user",
			req:  throttle.Request{UserID: "42", Authenticated: true, ForwardedFor: "1.1.1.1", RemoteAddr: "2.2.2.2"},
			want: "42",
		},
		{
			name: "forwarded for first entry",
			req:  throttle.Request{ForwardedFor: " 203.0.113.7 , 10.0.0.1, 10.0.0.2", RemoteAddr: "10.0.0.3"},
			want: "203.0.113.7",
		},
		{
			name: "single forwarded entry",
			req:  throttle.Request{ForwardedFor: "198.51.100.4"},
			want: "198.51.100.4",
		},
		{
			name: "remote address fallback",
			req:  throttle.Request{RemoteAddr: "192.0.2.10"},
			want: "192.0.2.10",
		},
		{
			name: "blank forwarded header falls back",
			req:  throttle.Request{ForwardedFor: " , 10.0.0.1", RemoteAddr: "192.0.2.10"},
			want: "192.0.2.10",
		},
		{
			name: "nothing to resolve",
			req:  throttle.Request{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, throttle.ResolveIdentity(tt.req))
		})
	}
}

func TestResolveClientIP_IgnoresPrincipal(t *testing.T) {
	req := throttle.Request{UserID: "42", Authenticated: true, RemoteAddr: "192.0.2.10"}
	assert.Equal(t, "192.0.2.10", throttle.ResolveClientIP(req))
}

func TestSelectors(t *testing.T) {
	s := throttle.NewUserAnonSelector("100/hour", "10/hour")

	scope, rate := s.SelectRate(throttle.Request{Authenticated: true, UserID: "1"})
	assert.Equal(t, throttle.ScopeUser, scope)
	assert.Equal(t, "100/hour", rate)

	scope, rate = s.SelectRate(throttle.Request{RemoteAddr: "1.2.3.4"})
	assert.Equal(t, throttle.ScopeAnon, scope)
	assert.Equal(t, "10/hour", rate)

	scope, rate = throttle.NewFixedSelector(throttle.ScopeIP, "60/minute").SelectRate(throttle.Request{})
	assert.Equal(t, throttle.ScopeIP, scope)
	assert.Equal(t, "60/minute", rate)
}
