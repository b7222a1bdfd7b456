package middleware

import (
	"github.com/NeuralTrust/ThrottleGate/pkg/app/versioning"
	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	"github.com/gofiber/fiber/v2"
)

type versioningMiddleware struct {
	resolver *versioning.Resolver
}

func NewVersioningMiddleware(resolver *versioning.Resolver) Middleware {
	return &versioningMiddleware{resolver: resolver}
}

func (m *versioningMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := m.resolver.FromAccept(c.Get(fiber.HeaderAccept))
		c.Locals(common.APIVersionKey, version)
		c.Set(common.APIVersionHeader, version)
		return c.Next()
	}
}
