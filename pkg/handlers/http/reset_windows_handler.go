package http

import (
	"net/url"
	"strings"

	"github.com/NeuralTrust/ThrottleGate/pkg/app/throttle"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// WindowSet pairs a window store with the keys an identity owns in it.
type WindowSet struct {
	Store throttle.WindowStore
	Keys  func(identity string) []string
}

type resetWindowsHandler struct {
	logger *logrus.Logger
	sets   []WindowSet
}

// NewResetWindowsHandler deletes every window an identity owns across sets.
func NewResetWindowsHandler(logger *logrus.Logger, sets ...WindowSet) Handler {
	return &resetWindowsHandler{
		logger: logger,
		sets:   sets,
	}
}

// Handle @Summary Reset throttle windows
// @Description Clears the stored windows of an identity under every configured rate
// @Tags Throttle
// @Param identity path string true "user id or client IP"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/throttle/windows/{identity} [delete]
func (h *resetWindowsHandler) Handle(c *fiber.Ctx) error {
	identity, err := url.PathUnescape(c.Params("identity"))
	if err != nil || strings.TrimSpace(identity) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identity is required"})
	}

	deleted := 0
	for _, set := range h.sets {
		keys := set.Keys(identity)
		if len(keys) == 0 {
			continue
		}
		if err := set.Store.Delete(c.UserContext(), keys...); err != nil {
			h.logger.WithError(err).WithField("identity", identity).Error("failed to reset throttle windows")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Failed to reset throttle windows"})
		}
		deleted += len(keys)
	}

	h.logger.WithFields(logrus.Fields{
		"identity": identity,
		"keys":     deleted,
	}).Info("throttle windows reset")
	return c.SendStatus(fiber.StatusNoContent)
}
