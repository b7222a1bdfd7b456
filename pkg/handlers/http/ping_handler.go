package http

import (
	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	"github.com/gofiber/fiber/v2"
)

type pingHandler struct{}

func NewPingHandler() Handler {
	return &pingHandler{}
}

// Handle @Summary Throttled ping
// @Tags Throttle
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/ping [get]
func (h *pingHandler) Handle(c *fiber.Ctx) error {
	apiVersion, _ := c.Locals(common.APIVersionKey).(string)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":     "pong",
		"api_version": apiVersion,
	})
}
