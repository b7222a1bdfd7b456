package middleware

import (
	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/auth/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type adminAuthMiddleware struct {
	logger *logrus.Logger
}

// NewAdminAuthMiddleware requires claims with the admin role. It runs after
// the auth middleware.
func NewAdminAuthMiddleware(logger *logrus.Logger) Middleware {
	return &adminAuthMiddleware{logger: logger}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, ok := ctx.Locals(common.ClaimsContextKey).(*jwt.Claims)
		if !ok || claims == nil {
			m.logger.Debug("no authorization header provided")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization required"})
		}
		if !claims.IsAdmin() {
			m.logger.WithField("user_id", claims.UserID).Warn("admin route denied")
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin role required"})
		}
		return ctx.Next()
	}
}
