package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

const sessionCookie = "ja_sid"

const sessionIDKey = "session_id"

// CurrentSessionKey is where guards park the session they already loaded.
const CurrentSessionKey = "current_session"

// SessionCookie assigns every browser a stable session id. The id addresses
// the server-side session record; nothing else is stored client-side.
func SessionCookie() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(sessionCookie)
		if id == "" {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
			})
		}
		c.Locals(sessionIDKey, id)
		return c.Next()
	}
}

// SessionID returns the request's session id.
func SessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// CurrentSession returns the session a guard stored for the request, falling
// back to a fresh store read for unguarded pages.
func CurrentSession(c *fiber.Ctx, sessions *session.Store) domain.Session {
	if sess, ok := c.Locals(CurrentSessionKey).(domain.Session); ok {
		return sess
	}
	return sessions.Get(c.UserContext(), SessionID(c))
}
