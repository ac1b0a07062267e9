// Package middleware contains the echo middleware of the HTTP delivery.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"flightdeck/config"
	"flightdeck/internal/delivery/http/response"
	"flightdeck/internal/domain/entity"
	"flightdeck/internal/usecase"

	"github.com/labstack/echo/v4"
)

const identityContextKey = "identity"

// SessionMiddleware is the single authorization gate: it resolves the session
// cookie to an identity exactly once per request and guards protected routes.
// Page routes bounce unauthenticated callers to /login; API routes get 401.
type SessionMiddleware struct {
	sessions   usecase.SessionUsecase
	cookieName string
	logger     *slog.Logger
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(sessions usecase.SessionUsecase, cfg *config.Config, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:   sessions,
		cookieName: cfg.Session.CookieName,
		logger:     logger,
	}
}

// Resolve attaches the caller's identity to the request when a valid session
// cookie is present. It never rejects; the Require* middlewares do that.
func (m *SessionMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get(identityContextKey).(*entity.Identity); ok {
			return next(c)
		}

		cookie, err := c.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		identity, err := m.sessions.Resolve(c.Request().Context(), cookie.Value)
		if err != nil {
			// A store failure must not silently downgrade to "logged out".
			return err
		}
		if identity != nil {
			c.Set(identityContextKey, identity)
		}

		return next(c)
	}
}

// RequirePage guards HTML routes: unauthenticated callers are redirected to
// the login page.
func (m *SessionMiddleware) RequirePage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentIdentity(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}

		return next(c)
	}
}

// RequireAPI guards JSON routes: unauthenticated callers get 401.
func (m *SessionMiddleware) RequireAPI(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentIdentity(c) == nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
		}

		return next(c)
	}
}

// CurrentIdentity returns the authenticated caller attached by Resolve, or
// nil when the request is anonymous.
func CurrentIdentity(c echo.Context) *entity.Identity {
	identity, _ := c.Get(identityContextKey).(*entity.Identity)

	return identity
}

// SetIdentity attaches an identity to the request. Used by handlers right
// after login and by tests.
func SetIdentity(c echo.Context, identity *entity.Identity) {
	c.Set(identityContextKey, identity)
}

// SessionCookie builds the auth cookie carrying a raw session token.
func SessionCookie(name, token string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(ttl / time.Second)
	}

	return cookie
}
