package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// DefaultAPIVersion is assumed when a client omits the X-Api-Version header.
const DefaultAPIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header and stores it in context
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", DefaultAPIVersion)

		// legacy clients send the short form
		if version == "1.0" {
			version = DefaultAPIVersion
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}
