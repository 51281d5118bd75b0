package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultSessionCookieName is the cookie carrying the session token.
const DefaultSessionCookieName = "session"

// WriteSessionCookie stores a session token on the response. The cookie is
// http-only and SameSite=Strict; the secure flag follows the environment
// so local development over plain http keeps working.
func WriteSessionCookie(c *fiber.Ctx, token string, production bool) {
	c.Cookie(&fiber.Cookie{
		Name:     DefaultSessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTokenTTL.Seconds()),
		Expires:  time.Now().Add(SessionTokenTTL),
		HTTPOnly: true,
		Secure:   production,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie removes the session cookie by writing an empty,
// already expired value.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     DefaultSessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// SessionTokenFromRequest extracts the raw session token from the cookie,
// falling back to a bearer Authorization header for non-browser clients.
func SessionTokenFromRequest(c *fiber.Ctx) (string, error) {
	if token := c.Cookies(DefaultSessionCookieName); token != "" {
		return token, nil
	}

	header := c.Get(fiber.HeaderAuthorization)
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}

	return "", ErrUnableToFindSession
}
