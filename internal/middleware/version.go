package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the version of the REST surface served under /api
const APIVersion = "1.0.0"

// VersionMiddleware records the X-Api-Version the client asked for and
// answers with the served version.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", APIVersion)

		// Support version aliases
		switch version {
		case "1", "1.0":
			version = APIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", APIVersion)

		return c.Next()
	}
}
