package throttle

const (
	ScopeUser = "user"
	ScopeAnon = "anon"
	ScopeIP   = "ip"
)

// DefaultRates mirrors the rates the API shipped with.
var DefaultRates = map[string]string{
	ScopeUser: "100/hour",
	ScopeAnon: "10/hour",
}

// RateSelector picks the named scope and the rate string applied to a request.
// An empty rate disables throttling for the request.
type RateSelector interface {
	SelectRate(req Request) (scope string, rate string)
}

type userAnonSelector struct {
	user string
	anon string
}

// NewUserAnonSelector applies user to authenticated requests and anon to the rest.
func NewUserAnonSelector(user, anon string) RateSelector {
	return &userAnonSelector{user: user, anon: anon}
}

func (s *userAnonSelector) SelectRate(req Request) (string, string) {
	if req.Authenticated {
		return ScopeUser, s.user
	}
	return ScopeAnon, s.anon
}

type fixedSelector struct {
	scope string
	rate  string
}

// NewFixedSelector applies the same rate to every request.
func NewFixedSelector(scope, rate string) RateSelector {
	return &fixedSelector{scope: scope, rate: rate}
}

func (s *fixedSelector) SelectRate(Request) (string, string) {
	return s.scope, s.rate
}
