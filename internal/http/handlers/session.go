package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"storefront/internal/catalog"
	"storefront/internal/session"
)

const sessionKey = "session"

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
			MaxAge:   60 * 60 * 24 * 365,
		})
		c.Request().Header.SetCookie("sid", sid)
	}
	return sid
}

// WithSession attaches the visitor's session, creating the sid cookie on the
// first visit.
func WithSession(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(sessionKey, m.Get(ensureSID(c)))
		return c.Next()
	}
}

func current(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(sessionKey).(*session.Session)
	return s
}

// remoteCtx carries the visitor's token to the catalog.
func remoteCtx(c *fiber.Ctx, s *session.Session) context.Context {
	return catalog.WithToken(c.UserContext(), s.Gate.Token())
}
