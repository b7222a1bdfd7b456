package router

import (
	handlers "github.com/NeuralTrust/ThrottleGate/pkg/handlers/http"
	"github.com/NeuralTrust/ThrottleGate/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

const (
	HealthPath  = "/health"
	VersionPath = "/version"
	APIPrefix   = "/api/v1"
	SwaggerPath = "/swagger.json"
)

type apiRouter struct {
	globalTransport *middleware.Transport
	apiTransport    *middleware.Transport
	adminMiddleware middleware.Middleware
	handlers        handlers.HandlerTransport
}

// NewAPIRouter wires the public routes. globalTransport runs on every request,
// apiTransport only under /api/v1, and adminMiddleware guards the admin routes.
func NewAPIRouter(
	globalTransport *middleware.Transport,
	apiTransport *middleware.Transport,
	adminMiddleware middleware.Middleware,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		globalTransport: globalTransport,
		apiTransport:    apiTransport,
		adminMiddleware: adminMiddleware,
		handlers:        handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	if r.handlers.HealthHandler == nil || r.handlers.PingHandler == nil ||
		r.handlers.ThrottleStatusHandler == nil || r.handlers.ResetWindowsHandler == nil {
		return ErrInvalidHandlerTransport
	}

	if mws := r.globalTransport.GetMiddlewares(); len(mws) > 0 {
		router.Use(mws...)
	}

	router.Get(HealthPath, r.handlers.HealthHandler.Handle)
	if r.handlers.GetVersionHandler != nil {
		router.Get(VersionPath, r.handlers.GetVersionHandler.Handle)
	}

	router.Static(SwaggerPath, "./docs/swagger.json")
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: SwaggerPath,
	}))

	v1 := router.Group(APIPrefix)
	{
		if mws := r.apiTransport.GetMiddlewares(); len(mws) > 0 {
			v1.Use(mws...)
		}

		v1.Get("/ping", r.handlers.PingHandler.Handle)

		throttle := v1.Group("/throttle")
		{
			throttle.Get("/status", r.handlers.ThrottleStatusHandler.Handle)
			throttle.Delete("/windows/:identity", r.adminMiddleware.Middleware(), r.handlers.ResetWindowsHandler.Handle)
		}
	}
	return nil
}
