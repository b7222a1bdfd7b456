package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	HealthHandler     Handler
	GetVersionHandler Handler
	PingHandler       Handler

	// Throttle
	ThrottleStatusHandler Handler
	ResetWindowsHandler   Handler
}
