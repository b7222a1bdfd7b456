package http

import (
	"github.com/NeuralTrust/ThrottleGate/pkg/app/throttle"
	"github.com/NeuralTrust/ThrottleGate/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type throttleStatusHandler struct {
	logger  *logrus.Logger
	factory *throttle.Factory
}

func NewThrottleStatusHandler(logger *logrus.Logger, factory *throttle.Factory) Handler {
	return &throttleStatusHandler{
		logger:  logger,
		factory: factory,
	}
}

// Handle @Summary Inspect the caller's throttle window
// @Description Reports the window the caller would be checked against without recording a request
// @Tags Throttle
// @Produce json
// @Success 200 {object} throttle.Status
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/throttle/status [get]
func (h *throttleStatusHandler) Handle(c *fiber.Ctx) error {
	status, err := h.factory.New().Inspect(c.UserContext(), utils.ThrottleRequest(c))
	if err != nil {
		h.logger.WithError(err).Error("failed to inspect throttle window")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Throttle window unavailable"})
	}
	return c.Status(fiber.StatusOK).JSON(status)
}
