package middleware

import (
	"strings"

	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/auth/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

type authMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

// NewAuthMiddleware resolves the caller from an optional bearer token. Requests
// without Authorization continue as anonymous; a malformed or invalid token is
// rejected.
func NewAuthMiddleware(logger *logrus.Logger, jwtManager jwt.Manager) Middleware {
	return &authMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(authorizationHeader)
		if authHeader == "" {
			return ctx.Next()
		}

		claims, status, message := m.authenticate(authHeader)
		if claims == nil {
			return ctx.Status(status).JSON(fiber.Map{"error": message})
		}

		ctx.Locals(common.UserIDContextKey, claims.UserID)
		ctx.Locals(common.ClaimsContextKey, claims)
		return ctx.Next()
	}
}

func (m *authMiddleware) authenticate(authHeader string) (*jwt.Claims, int, string) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		m.logger.Debug("invalid authorization header format")
		return nil, fiber.StatusUnauthorized, "Invalid authorization format"
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if tokenString == "" {
		m.logger.Debug("empty token provided")
		return nil, fiber.StatusUnauthorized, "Empty token provided"
	}

	claims, err := m.jwtManager.DecodeToken(tokenString)
	if err != nil {
		m.logger.WithError(err).Debug("invalid token")
		return nil, fiber.StatusUnauthorized, "Invalid token"
	}
	return claims, 0, ""
}
