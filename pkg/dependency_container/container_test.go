package dependency_container

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/ThrottleGate/pkg/app/throttle"
	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	"github.com/NeuralTrust/ThrottleGate/pkg/config"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/cache"
	"github.com/NeuralTrust/ThrottleGate/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{SecretKey: "secret"},
		Throttle: config.ThrottleConfig{
			Store:     cache.StoreMemory,
			KeyPrefix: throttle.DefaultKeyPrefix,
			Rates: map[string]interface{}{
				"user": "3/minute",
				"anon": "2/minute",
			},
			Breaker: config.BreakerConfig{MaxFailures: 5, Timeout: time.Second},
		},
		Versioning: config.VersioningConfig{
			Default:   "v1",
			Supported: []string{"v1", "v2"},
			IPRate:    "100/minute",
		},
	}
}

func newApp(t *testing.T, cfg *config.Config) (*fiber.App, *Container) {
	t.Helper()
	now := time.Unix(1_740_000_000, 0)
	clock := func() time.Time { return now }
	c, err := NewContainer(ContainerDI{
		Cfg:          cfg,
		Logger:       logrus.New(),
		Backend:      cache.NewMemoryClient(logrus.New(), clock),
		TimeProvider: clock,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	app := fiber.New()
	r := router.NewAPIRouter(c.GlobalTransport, c.APITransport, c.AdminAuthMiddleware, c.HandlerTransport)
	require.NoError(t, r.BuildRoutes(app))
	return app, c
}

func call(t *testing.T, app *fiber.App, method, path, bearer string) (int, map[string]interface{}, map[string]string) {
	t.Helper()
	return callFrom(t, app, "203.0.113.7", method, path, bearer)
}

func callFrom(t *testing.T, app *fiber.App, ip, method, path, bearer string) (int, map[string]interface{}, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Forwarded-For", ip)
	req.Header.Set("Accept", "application/json; version=v2")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body := map[string]interface{}{}
	if resp.StatusCode != fiber.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&body)
	}
	headers := map[string]string{
		common.RateLimitScopeHeader: resp.Header.Get(common.RateLimitScopeHeader),
		common.RetryAfterHeader:     resp.Header.Get(common.RetryAfterHeader),
		common.APIVersionHeader:     resp.Header.Get(common.APIVersionHeader),
		common.RequestIDHeader:      resp.Header.Get(common.RequestIDHeader),
	}
	return resp.StatusCode, body, headers
}

func TestThrottledAPI(t *testing.T) {
	app, c := newApp(t, testConfig())

	status, body, headers := call(t, app, "GET", "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pong", body["message"])
	assert.Equal(t, "v2", body["api_version"])
	assert.Equal(t, "v2", headers[common.APIVersionHeader])
	assert.Equal(t, throttle.ScopeAnon, headers[common.RateLimitScopeHeader])
	assert.NotEmpty(t, headers[common.RequestIDHeader])

	status, _, _ = call(t, app, "GET", "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body, headers = call(t, app, "GET", "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "60", headers[common.RetryAfterHeader])
	assert.Equal(t, throttle.ScopeAnon, body["scope"])

	userToken, err := c.JWTManager.CreateToken("42", "", time.Hour)
	require.NoError(t, err)
	status, body, headers = call(t, app, "GET", "/api/v1/throttle/status", userToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "42", body["identity"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(2), body["remaining"])
	assert.Equal(t, throttle.ScopeUser, headers[common.RateLimitScopeHeader])

	status, _, _ = call(t, app, "DELETE", "/api/v1/throttle/windows/203.0.113.7", userToken)
	assert.Equal(t, fiber.StatusForbidden, status)

	adminToken, err := c.JWTManager.CreateToken("ops", jwt.RoleAdmin, time.Hour)
	require.NoError(t, err)
	status, _, _ = call(t, app, "DELETE", "/api/v1/throttle/windows/203.0.113.7", adminToken)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _, _ = call(t, app, "GET", "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestIPGuard(t *testing.T) {
	cfg := testConfig()
	cfg.Throttle.Rates = map[string]interface{}{"user": "100/minute", "anon": "100/minute"}
	cfg.Versioning.IPRate = "2/minute"
	app, c := newApp(t, cfg)

	userToken, err := c.JWTManager.CreateToken("42", "", time.Hour)
	require.NoError(t, err)

	status, _, _ := call(t, app, "GET", "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusOK, status)
	status, _, _ = call(t, app, "GET", "/api/v1/ping", userToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, body, _ := call(t, app, "GET", "/api/v1/ping", userToken)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, throttle.ScopeIP, body["scope"])
}

func TestUnthrottledRoutes(t *testing.T) {
	app, _ := newApp(t, testConfig())

	for i := 0; i < 5; i++ {
		status, body, _ := call(t, app, "GET", "/health", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "closed", body["breaker"])
	}

	status, body, _ := call(t, app, "GET", "/version", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ThrottleGate", body["app_name"])
}

func TestSettingsKeysExcludeIPGuard(t *testing.T) {
	_, c := newApp(t, testConfig())
	assert.Equal(t, "100/minute", c.IPRate)
	assert.ElementsMatch(t, []string{
		"throttle_1.2.3.4_3/minute",
		"throttle_1.2.3.4_2/minute",
	}, c.Settings.Keys("1.2.3.4"))
}

func TestIPGuardWindowsAreSeparate(t *testing.T) {
	cfg := testConfig()
	cfg.Throttle.Rates = map[string]interface{}{"user": "4/minute", "anon": "4/minute"}
	cfg.Versioning.IPRate = "4/minute"
	app, c := newApp(t, cfg)

	for i := 0; i < 4; i++ {
		status, _, _ := call(t, app, "GET", "/api/v1/ping", "")
		require.Equal(t, fiber.StatusOK, status, "request %d", i+1)
	}
	status, _, _ := call(t, app, "GET", "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusTooManyRequests, status)

	ctx := context.Background()
	anonWindow, err := c.WindowStore.Load(ctx, "throttle_203.0.113.7_4/minute")
	require.NoError(t, err)
	assert.Len(t, anonWindow, 4)
	ipWindow, err := c.IPWindowStore.Load(ctx, "throttle_203.0.113.7_4/minute")
	require.NoError(t, err)
	assert.Len(t, ipWindow, 4)

	raw, err := c.Cache.Get(ctx, "app_cache:ip:throttle_203.0.113.7_4/minute")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	adminToken, err := c.JWTManager.CreateToken("ops", jwt.RoleAdmin, time.Hour)
	require.NoError(t, err)
	status, _, _ = callFrom(t, app, "198.51.100.1", "DELETE", "/api/v1/throttle/windows/203.0.113.7", adminToken)
	assert.Equal(t, fiber.StatusNoContent, status)

	_, err = c.Cache.Get(ctx, "app_cache:throttle_203.0.113.7_4/minute")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = c.Cache.Get(ctx, "app_cache:ip:throttle_203.0.113.7_4/minute")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	status, _, _ = call(t, app, "GET", "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestEmptySecretDisablesBearerAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Server.SecretKey = ""
	app, _ := newApp(t, cfg)

	forge := func(userID, role string) string {
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &jwt.Claims{UserID: userID, Role: role}).
			SignedString([]byte(""))
		require.NoError(t, err)
		return token
	}

	status, _, _ := call(t, app, "DELETE", "/api/v1/throttle/windows/203.0.113.7", forge("ops", jwt.RoleAdmin))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body, headers := call(t, app, "GET", "/api/v1/throttle/status", forge("42", ""))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "203.0.113.7", body["identity"])
	assert.Equal(t, throttle.ScopeAnon, headers[common.RateLimitScopeHeader])

	status, body, _ = call(t, app, "GET", "/api/v1/ping", forge("43", ""))
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, throttle.ScopeAnon, body["scope"])
}

func TestNewContainer_InvalidRates(t *testing.T) {
	cfg := testConfig()
	cfg.Throttle.Rates = map[string]interface{}{"anon": "2/fortnight"}
	_, err := NewContainer(ContainerDI{Cfg: cfg, Logger: logrus.New(), Backend: cache.NewMemoryClient(logrus.New(), nil)})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Versioning.IPRate = "lots"
	_, err = NewContainer(ContainerDI{Cfg: cfg, Logger: logrus.New(), Backend: cache.NewMemoryClient(logrus.New(), nil)})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Throttle.Store = "memcached"
	_, err = NewContainer(ContainerDI{Cfg: cfg, Logger: logrus.New()})
	assert.Error(t, err)
}
