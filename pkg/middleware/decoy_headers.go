package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/honeyguard/honeygate/pkg/common"
	"github.com/honeyguard/honeygate/pkg/decoy"
)

type decoyHeadersMiddleware struct {
	registry *decoy.Registry
}

// NewDecoyHeadersMiddleware reproduces the response headers the imitated
// software really sends on its login page. A scanner that fingerprints
// header sets should see nothing unusual.
func NewDecoyHeadersMiddleware(registry *decoy.Registry) Middleware {
	return &decoyHeadersMiddleware{registry: registry}
}

func (m *decoyHeadersMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, ok := m.registry.ByPath(c.Path())
		if !ok {
			return c.Next()
		}
		c.Locals(common.ProfileContextKey, profile)

		switch profile.Name {
		case decoy.ProfileDjango:
			c.Set("X-Frame-Options", "DENY")
			c.Set("X-Content-Type-Options", "nosniff")
			c.Set("Referrer-Policy", "same-origin")
			c.Set("Cross-Origin-Opener-Policy", "same-origin")
			c.Set("Vary", "Cookie")
			c.Set("Cache-Control", "max-age=0, no-cache, no-store, must-revalidate, private")
		case decoy.ProfileWordPress:
			c.Set("X-Frame-Options", "SAMEORIGIN")
			c.Set("Cache-Control", "no-cache, must-revalidate, max-age=0")
			// The 1984 date is what wp-login.php has sent for decades.
			c.Set("Expires", "Wed, 11 Jan 1984 05:00:00 GMT")
		}

		return c.Next()
	}
}
