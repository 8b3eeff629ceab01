package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"optimapricer/internal/config"
)

// UserIDLocalKey is the key used to store the authenticated user ID in
// Fiber's context locals.
const UserIDLocalKey = "user_id"

// sessionUserKey is the key under which the user ID lives inside the
// session itself.
const sessionUserKey = "user_id"

// SessionAuth implements cookie-session authentication on top of Fiber's
// session middleware. Handlers sign users in and out through it; protected
// route groups use Protected to require a live session.
type SessionAuth struct {
	store *session.Store
}

// NewSessionAuth creates a SessionAuth backed by the default in-memory
// session storage.
func NewSessionAuth(cfg config.SessionConfig) *SessionAuth {
	store := session.New(session.Config{
		KeyLookup:      "cookie:" + cfg.CookieName,
		Expiration:     cfg.Expiry,
		CookieSecure:   cfg.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	return &SessionAuth{store: store}
}

// SignIn establishes a session for the given user.
func (a *SessionAuth) SignIn(c *fiber.Ctx, userID string) error {
	sess, err := a.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// SignOut destroys the current session, if any.
func (a *SessionAuth) SignOut(c *fiber.Ctx) error {
	sess, err := a.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// Protected returns a middleware that rejects requests without an
// authenticated session and stores the user ID in context locals for
// downstream handlers.
func (a *SessionAuth) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := a.store.Get(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		uid, _ := sess.Get(sessionUserKey).(string)
		if uid == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		c.Locals(UserIDLocalKey, uid)
		return c.Next()
	}
}

// UserID returns the authenticated user ID stored by Protected, or ""
// when the request is unauthenticated.
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(UserIDLocalKey).(string)
	return uid
}
