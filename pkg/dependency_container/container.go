package dependency_container

import (
	"context"
	"fmt"
	"time"

	"github.com/NeuralTrust/ThrottleGate/pkg/app/throttle"
	"github.com/NeuralTrust/ThrottleGate/pkg/app/versioning"
	"github.com/NeuralTrust/ThrottleGate/pkg/config"
	domain "github.com/NeuralTrust/ThrottleGate/pkg/domain/throttle"
	handlers "github.com/NeuralTrust/ThrottleGate/pkg/handlers/http"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/cache"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/ThrottleGate/pkg/server/middleware"
	"github.com/sirupsen/logrus"
)

const (
	janitorInterval = time.Minute
	// IPGuardNamespace keeps per-IP guard windows apart from user/anon windows
	// that share the same identity and rate.
	IPGuardNamespace = "ip:"
)

type Container struct {
	Cache               cache.Client
	WindowStore         throttle.WindowStore
	IPWindowStore       throttle.WindowStore
	IPRate              string
	Settings            throttle.Settings
	ThrottleFactory     *throttle.Factory
	IPGuardFactory      *throttle.Factory
	JWTManager          jwt.Manager
	VersionResolver     *versioning.Resolver
	HandlerTransport    handlers.HandlerTransport
	GlobalTransport     *middleware.Transport
	APITransport        *middleware.Transport
	AdminAuthMiddleware middleware.Middleware

	stop context.CancelFunc
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	// Backend replaces the store built from Cfg.Throttle.Store.
	Backend      cache.Client
	TimeProvider func() time.Time
}

func NewContainer(di ContainerDI) (*Container, error) {
	if di.TimeProvider == nil {
		di.TimeProvider = time.Now
	}
	ctx, stop := context.WithCancel(context.Background())

	backend, err := newBackend(ctx, di)
	if err != nil {
		stop()
		return nil, err
	}
	cacheInstance := cache.NewBreakerClient(backend, cache.BreakerConfig{
		Name:        "window-store",
		MaxFailures: di.Cfg.Throttle.Breaker.MaxFailures,
		Timeout:     di.Cfg.Throttle.Breaker.Timeout,
	})

	settings, err := throttle.DecodeSettings(map[string]interface{}{"rates": di.Cfg.Throttle.Rates})
	if err != nil {
		stop()
		return nil, err
	}
	ipRate := di.Cfg.Versioning.IPRate
	if ipRate != "" {
		if _, err := domain.ParseRate(ipRate); err != nil {
			stop()
			return nil, fmt.Errorf("versioning ip_rate: %w", err)
		}
	}

	var recorder throttle.Recorder
	if di.Cfg.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{
			EnableLatency:      di.Cfg.Metrics.EnableLatency,
			EnableStoreLatency: di.Cfg.Metrics.EnableLatency,
		})
		recorder = prometheus.NewRecorder()
	}

	windowStore := throttle.NewCacheWindowStore(cacheInstance, di.Cfg.Throttle.KeyPrefix)
	ipWindowStore := throttle.NewCacheWindowStore(cacheInstance, di.Cfg.Throttle.KeyPrefix+IPGuardNamespace)
	throttleFactory := throttle.NewFactory(windowStore, settings.Selector(), di.Logger, &throttle.FactoryOpts{
		TimeProvider: di.TimeProvider,
		Recorder:     recorder,
	})
	ipGuardFactory := throttle.NewFactory(ipWindowStore, throttle.NewFixedSelector(throttle.ScopeIP, ipRate), di.Logger, &throttle.FactoryOpts{
		TimeProvider:     di.TimeProvider,
		IdentityResolver: throttle.ResolveClientIP,
		Recorder:         recorder,
	})

	jwtManager := jwt.NewJwtManager(di.Cfg.Server.SecretKey)
	versionResolver := versioning.NewResolver(di.Cfg.Versioning.Default, di.Cfg.Versioning.Supported, di.Logger)

	globalTransport := middleware.NewTransport(
		middleware.NewPanicRecoverMiddleware(di.Logger),
		middleware.NewRequestIDMiddleware(),
	)
	if di.Cfg.Metrics.Enabled {
		globalTransport.RegisterMiddleware(middleware.NewMetricsMiddleware())
	}

	apiTransport := middleware.NewTransport(middleware.NewVersioningMiddleware(versionResolver))
	if di.Cfg.Server.SecretKey != "" {
		apiTransport.RegisterMiddleware(middleware.NewAuthMiddleware(di.Logger, jwtManager))
	} else {
		di.Logger.Warn("server.secret_key is empty, bearer tokens are ignored and admin routes are closed")
	}
	if ipRate != "" {
		apiTransport.RegisterMiddleware(middleware.NewThrottleMiddleware(di.Logger, ipGuardFactory))
	}
	apiTransport.RegisterMiddleware(middleware.NewThrottleMiddleware(di.Logger, throttleFactory))

	handlerTransport := handlers.HandlerTransport{
		HealthHandler:         handlers.NewHealthHandler(di.Logger, cacheInstance),
		GetVersionHandler:     handlers.NewGetVersionHandler(di.Logger),
		PingHandler:           handlers.NewPingHandler(),
		ThrottleStatusHandler: handlers.NewThrottleStatusHandler(di.Logger, throttleFactory),
		ResetWindowsHandler: handlers.NewResetWindowsHandler(di.Logger,
			handlers.WindowSet{Store: windowStore, Keys: settings.Keys},
			handlers.WindowSet{Store: ipWindowStore, Keys: ipGuardKeys(ipRate)},
		),
	}

	return &Container{
		Cache:               cacheInstance,
		WindowStore:         windowStore,
		IPWindowStore:       ipWindowStore,
		IPRate:              ipRate,
		Settings:            settings,
		ThrottleFactory:     throttleFactory,
		IPGuardFactory:      ipGuardFactory,
		JWTManager:          jwtManager,
		VersionResolver:     versionResolver,
		HandlerTransport:    handlerTransport,
		GlobalTransport:     globalTransport,
		APITransport:        apiTransport,
		AdminAuthMiddleware: middleware.NewAdminAuthMiddleware(di.Logger),
		stop:                stop,
	}, nil
}

func newBackend(ctx context.Context, di ContainerDI) (cache.Client, error) {
	if di.Backend != nil {
		return di.Backend, nil
	}
	switch di.Cfg.Throttle.Store {
	case cache.StoreMemory:
		memoryClient := cache.NewMemoryClient(di.Logger, di.TimeProvider)
		go memoryClient.RunJanitor(ctx, janitorInterval)
		di.Logger.Warn("using in-memory window store, limits are not shared between replicas")
		return memoryClient, nil
	case cache.StoreRedis, "":
		return cache.NewClient(cache.Config{
			Host:     di.Cfg.Redis.Host,
			Port:     di.Cfg.Redis.Port,
			Password: di.Cfg.Redis.Password,
			DB:       di.Cfg.Redis.DB,
			TLS:      di.Cfg.Redis.TLS,
		}, di.Logger)
	default:
		return nil, fmt.Errorf("unknown throttle store %q", di.Cfg.Throttle.Store)
	}
}

func ipGuardKeys(rate string) func(identity string) []string {
	return func(identity string) []string {
		if rate == "" {
			return nil
		}
		return []string{domain.CacheKey(identity, rate)}
	}
}

// Close stops background work started by the container.
func (c *Container) Close() {
	c.stop()
}
