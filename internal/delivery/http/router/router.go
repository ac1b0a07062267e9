// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"flightdeck/internal/delivery/http/middleware"
	"flightdeck/internal/delivery/http/router/handler"
	"flightdeck/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds every handler and middleware the route table needs.
type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	FlightHandler     *handler.FlightHandler
	SessionMiddleware *middleware.SessionMiddleware
	Metrics           *metrics.Collector
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	flightHandler     *handler.FlightHandler
	sessionMiddleware *middleware.SessionMiddleware
	metrics           *metrics.Collector
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		flightHandler:     params.FlightHandler,
		sessionMiddleware: params.SessionMiddleware,
		metrics:           params.Metrics,
	}
}

// RegisterRoutes sets up the full route table: HTML pages, the JSON mirror
// and the operational endpoints.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.sessionMiddleware.Resolve)

	e.GET("/healthz", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))

	// The landing page is the flight list; RequirePage sends anonymous
	// callers to /login from there.
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/list")
	})

	// Auth pages and endpoints.
	e.GET("/register", r.authHandler.RegisterPage)
	e.POST("/register", r.authHandler.Register)
	e.GET("/login", r.authHandler.LoginPage)
	e.POST("/login", r.authHandler.Login)
	e.GET("/logout", r.authHandler.Logout)
	e.GET("/auth/google", r.authHandler.GoogleLogin)
	e.GET("/auth/google/callback", r.authHandler.GoogleCallback)

	// Protected pages.
	pages := e.Group("", r.sessionMiddleware.RequirePage)
	{
		pages.GET("/list", r.flightHandler.ListPage)
		pages.POST("/flights", r.flightHandler.CreateFromForm)
		pages.GET("/edit", r.flightHandler.EditPage)
		pages.GET("/details", r.flightHandler.DetailsPage)
		pages.PUT("/flights/:id", r.flightHandler.UpdateFromForm)
		pages.DELETE("/flights/:flightNumber", r.flightHandler.DeleteFromForm)
	}

	// JSON mirror of the same operations.
	api := e.Group("/api/flights", r.sessionMiddleware.RequireAPI)
	{
		api.GET("", r.flightHandler.ListAPI)
		api.POST("", r.flightHandler.CreateAPI)
		api.GET("/:flightNumber", r.flightHandler.GetAPI)
		api.PUT("/:flightNumber", r.flightHandler.UpdateAPI)
		api.DELETE("/:flightNumber", r.flightHandler.DeleteAPI)
	}
}
