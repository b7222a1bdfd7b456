package http

import (
	"context"
	"time"

	"github.com/NeuralTrust/ThrottleGate/pkg/infra/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const healthPingTimeout = time.Second

type breakerState interface {
	State() gobreaker.State
}

type healthHandler struct {
	logger *logrus.Logger
	store  cache.Client
}

func NewHealthHandler(logger *logrus.Logger, store cache.Client) Handler {
	return &healthHandler{
		logger: logger,
		store:  store,
	}
}

// Handle @Summary Health check
// @Description Reports gate health. A store outage degrades the gate but it
// @Description keeps serving, since throttling fails open.
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
	defer cancel()

	body := fiber.Map{
		"status": "healthy",
		"store":  "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("window store ping failed")
		body["status"] = "degraded"
		body["store"] = "unavailable"
	}
	if b, ok := h.store.(breakerState); ok {
		body["breaker"] = b.State().String()
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
