package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/ThrottleGate/pkg/config"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/ThrottleGate/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Server interface defines the common behavior for all servers
type Server interface {
	Run() error
	Shutdown() error
}

type BaseServer struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Router     *fiber.App
	MetricsApp *fiber.App
}

func NewBaseServer(config *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		EnablePrintRoutes:     false,
		BodyLimit:             1 * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		Concurrency:           16384,
	})

	r.Server().MaxConnsPerIP = 1024
	r.Server().NoDefaultServerHeader = true

	server := &BaseServer{
		Config: config,
		Logger: logger,
		Router: r,
	}
	if config.Metrics.Enabled {
		server.MetricsApp = newMetricsApp()
	}
	return server
}

func newMetricsApp() *fiber.App {
	metricsApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	metricsApp.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Gatherer(), promhttp.HandlerOpts{}),
	)
	metricsApp.Get("/metrics", func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})
	return metricsApp
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		err := r.BuildRoutes(s.Router)
		if err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
		}
	}
	return s
}

// Run serves the API and, when enabled, the metrics endpoint on its own port.
// When either listener stops the other is shut down too.
func (s *BaseServer) Run() error {
	var g errgroup.Group

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", s.Config.Server.Port)
		s.Logger.WithField("addr", addr).Info("starting throttlegate server")
		err := s.Router.Listen(addr)
		if s.MetricsApp != nil {
			_ = s.MetricsApp.Shutdown()
		}
		return err
	})

	if s.MetricsApp != nil {
		g.Go(func() error {
			addr := fmt.Sprintf(":%d", s.Config.Server.MetricsPort)
			s.Logger.WithField("addr", addr).Info("starting metrics server")
			err := s.MetricsApp.Listen(addr)
			_ = s.Router.Shutdown()
			return err
		})
	} else {
		s.Logger.Info("prometheus metrics are disabled by configuration")
	}

	return g.Wait()
}

func (s *BaseServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.Router.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("api server: %w", err))
	}
	if s.MetricsApp != nil {
		if err := s.MetricsApp.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}
	return errors.Join(errs...)
}
