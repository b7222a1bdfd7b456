package middleware

import (
	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

type requestIDMiddleware struct{}

// NewRequestIDMiddleware keeps a caller supplied X-Request-Id or generates one.
func NewRequestIDMiddleware() Middleware {
	return &requestIDMiddleware{}
}

func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(common.RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}
		c.Locals(common.RequestIDKey, requestID)
		c.Set(common.RequestIDHeader, requestID)
		return c.Next()
	}
}
