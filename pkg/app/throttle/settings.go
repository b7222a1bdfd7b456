package throttle

import (
	"fmt"

	domain "github.com/NeuralTrust/ThrottleGate/pkg/domain/throttle"
	"github.com/mitchellh/mapstructure"
)

// Settings holds the named rates. Only "user" and "anon" are consulted by the
// user/anon selector.
type Settings struct {
	Rates map[string]string `mapstructure:"rates"`
}

// DecodeSettings reads {"rates": {"user": "...", "anon": "..."}} from a
// generic map, fills missing scopes from DefaultRates and validates every rate.
func DecodeSettings(raw map[string]interface{}) (Settings, error) {
	var settings Settings
	if err := mapstructure.Decode(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("invalid throttle settings: %w", err)
	}
	if settings.Rates == nil {
		settings.Rates = make(map[string]string, len(DefaultRates))
	}
	for scope, rate := range DefaultRates {
		if _, ok := settings.Rates[scope]; !ok {
			settings.Rates[scope] = rate
		}
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate parses every non-empty rate. An empty rate is allowed and turns the
// scope off.
func (s Settings) Validate() error {
	for scope, rate := range s.Rates {
		if rate == "" {
			continue
		}
		if _, err := domain.ParseRate(rate); err != nil {
			return fmt.Errorf("throttle scope %s: %w", scope, err)
		}
	}
	return nil
}

// Selector returns the user/anon selector for these settings.
func (s Settings) Selector() RateSelector {
	return NewUserAnonSelector(s.Rates[ScopeUser], s.Rates[ScopeAnon])
}

// Keys lists the window keys identity may own under any configured rate.
func (s Settings) Keys(identity string) []string {
	keys := make([]string, 0, len(s.Rates))
	seen := make(map[string]bool, len(s.Rates))
	for _, rate := range s.Rates {
		if rate == "" || seen[rate] {
			continue
		}
		seen[rate] = true
		keys = append(keys, domain.CacheKey(identity, rate))
	}
	return keys
}
