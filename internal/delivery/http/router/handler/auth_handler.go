// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"flightdeck/config"
	"flightdeck/internal/delivery/http/middleware"
	"flightdeck/internal/domain/entity"
	domainerrors "flightdeck/internal/domain/errors"
	"flightdeck/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandler serves the registration, login and logout surface, both the
// HTML pages and the federated redirect endpoints.
type AuthHandler struct {
	users    usecase.UserUsecase
	sessions usecase.SessionUsecase
	cfg      *config.Config
	logger   *slog.Logger
}

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	Users    usecase.UserUsecase
	Sessions usecase.SessionUsecase
	Config   *config.Config
	Logger   *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		users:    params.Users,
		sessions: params.Sessions,
		cfg:      params.Config,
		logger:   params.Logger,
	}
}

func (h *AuthHandler) googleEnabled() bool {
	return h.users.GoogleAuthURL() != ""
}

// RegisterPage renders the registration form. Logged-in callers go straight
// to their flights.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	if middleware.CurrentIdentity(c) != nil {
		return c.Redirect(http.StatusFound, "/list")
	}

	return c.Render(http.StatusOK, "register.html", map[string]any{
		"GoogleEnabled": h.googleEnabled(),
	})
}

// Register handles the registration form post. Success logs the new user in
// immediately; user-correctable failures re-render the form with the message.
func (h *AuthHandler) Register(c echo.Context) error {
	input := usecase.RegisterInput{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Name:     c.FormValue("name"),
	}

	identity, err := h.users.Register(c.Request().Context(), input)
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
			return c.Render(appErr.HTTPCode(), "register.html", map[string]any{
				"Error":         appErr.Message(),
				"GoogleEnabled": h.googleEnabled(),
			})
		}

		return errors.WithStack(err)
	}

	return h.openSession(c, identity)
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if middleware.CurrentIdentity(c) != nil {
		return c.Redirect(http.StatusFound, "/list")
	}

	return c.Render(http.StatusOK, "login.html", map[string]any{
		"GoogleEnabled": h.googleEnabled(),
	})
}

// Login handles the login form post.
func (h *AuthHandler) Login(c echo.Context) error {
	input := usecase.LoginInput{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	identity, err := h.users.Login(c.Request().Context(), input)
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
			return c.Render(appErr.HTTPCode(), "login.html", map[string]any{
				"Error":         appErr.Message(),
				"GoogleEnabled": h.googleEnabled(),
			})
		}

		return errors.WithStack(err)
	}

	return h.openSession(c, identity)
}

// GoogleLogin starts the federated round trip by redirecting to the provider.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	authURL := h.users.GoogleAuthURL()
	if authURL == "" {
		return c.Render(http.StatusNotFound, "info.html", map[string]any{
			"Title":   "Not available",
			"Message": "Google sign-in is not configured on this server",
		})
	}

	return c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback completes the federated round trip. Any failure lands the
// caller back on the login page rather than an error surface.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	identity, err := h.users.GoogleCallback(c.Request().Context(), c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		h.logger.Warn("Federated login failed", slog.Any("error", err))

		return c.Redirect(http.StatusFound, "/login")
	}

	return h.openSession(c, identity)
}

// Logout ends the caller's session and clears the cookie. Safe to call
// logged out.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cfg.Session.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(c.Request().Context(), cookie.Value); err != nil {
			return errors.WithStack(err)
		}
	}

	c.SetCookie(middleware.SessionCookie(h.cfg.Session.CookieName, "", 0))

	return c.Redirect(http.StatusFound, "/login")
}

// openSession creates the durable session, sets the cookie and sends the
// caller to their flight list.
func (h *AuthHandler) openSession(c echo.Context, identity *entity.Identity) error {
	token, err := h.sessions.Create(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(middleware.SessionCookie(h.cfg.Session.CookieName, token, h.cfg.Session.TTL))

	return c.Redirect(http.StatusFound, "/list")
}
