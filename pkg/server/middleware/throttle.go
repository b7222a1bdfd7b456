package middleware

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/NeuralTrust/ThrottleGate/pkg/app/throttle"
	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	domain "github.com/NeuralTrust/ThrottleGate/pkg/domain/throttle"
	"github.com/NeuralTrust/ThrottleGate/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type throttleMiddleware struct {
	logger  *logrus.Logger
	factory *throttle.Factory
}

// NewThrottleMiddleware admits or rejects each request with a fresh Throttle
// from factory. Rejections are answered with 429 and a Retry-After hint.
func NewThrottleMiddleware(logger *logrus.Logger, factory *throttle.Factory) Middleware {
	return &throttleMiddleware{
		logger:  logger,
		factory: factory,
	}
}

func (m *throttleMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := m.factory.New()
		allowed, err := t.AllowRequest(c.UserContext(), utils.ThrottleRequest(c))
		if err != nil {
			m.logger.WithError(err).WithField("request_id", c.Locals(common.RequestIDKey)).
				Error("throttle misconfigured")
			if errors.Is(err, domain.ErrInvalidRate) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Invalid throttle rate configured"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}

		if t.Limit() > 0 {
			c.Set(common.RateLimitLimitHeader, strconv.Itoa(t.Limit()))
			c.Set(common.RateLimitRemainingHeader, strconv.Itoa(t.Remaining()))
			c.Set(common.RateLimitScopeHeader, t.Scope())
		}

		if allowed {
			return c.Next()
		}

		wait, ok := t.WaitSeconds()
		if !ok {
			wait = int(t.Period().Seconds())
		}
		c.Set(common.RetryAfterHeader, strconv.Itoa(wait))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       fmt.Sprintf("Request was throttled. Expected available in %d seconds.", wait),
			"retry_after": wait,
			"scope":       t.Scope(),
		})
	}
}
