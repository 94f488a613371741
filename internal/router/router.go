// Package router builds the echo instance: the middleware chain in order,
// then the system and record routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mesbrj/teams-api/internal/handler"
	"github.com/mesbrj/teams-api/internal/middleware"
	"github.com/mesbrj/teams-api/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerRecordRoutes(router, h)

	return router
}
