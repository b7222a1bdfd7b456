package utils

import (
	"github.com/NeuralTrust/ThrottleGate/pkg/app/throttle"
	"github.com/NeuralTrust/ThrottleGate/pkg/common"
	"github.com/gofiber/fiber/v2"
)

// ThrottleRequest collects what the throttle needs from the fiber context.
// The principal is read from the locals set by the auth middleware.
func ThrottleRequest(c *fiber.Ctx) throttle.Request {
	userID, _ := c.Locals(common.UserIDContextKey).(string)
	return throttle.Request{
		UserID:        userID,
		Authenticated: userID != "",
		ForwardedFor:  c.Get(common.ForwardedFor),
		RemoteAddr:    ExtractIP(c),
	}
}

// ExtractIP returns the transport peer address without the port.
func ExtractIP(c *fiber.Ctx) string {
	ip := c.Context().RemoteIP()
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
