package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/auth"
	applog "storefront/internal/log"
)

// RequireToken lets the request through only when the visitor holds a
// token; otherwise it redirects to login.
func RequireToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := current(c)
		if s == nil || !s.Gate.Authenticated() {
			applog.Security(c, "access.denied.guarded", map[string]any{"path": c.Path()})
			return c.Redirect(auth.LoginPath)
		}
		return c.Next()
	}
}
