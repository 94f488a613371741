package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mesbrj/teams-api/internal/handler"
)

func registerRecordRoutes(r *echo.Echo, h *handler.Handlers) {
	users := r.Group("/users")
	users.POST("", handler.Handle(h.User.CreateUser, http.StatusCreated))
	users.GET("", handler.Handle(h.User.ListUsers, http.StatusOK))
	users.GET("/:id", handler.Handle(h.User.GetUser, http.StatusOK))
	users.PATCH("/:id", handler.Handle(h.User.UpdateUser, http.StatusOK))
	users.DELETE("/:id", handler.Handle(h.User.DeleteUser, http.StatusOK))

	teams := r.Group("/teams")
	teams.POST("", handler.Handle(h.Team.CreateTeam, http.StatusCreated))
	teams.GET("", handler.Handle(h.Team.ListTeams, http.StatusOK))
	teams.GET("/:id", handler.Handle(h.Team.GetTeam, http.StatusOK))
	teams.PATCH("/:id", handler.Handle(h.Team.UpdateTeam, http.StatusOK))
	teams.DELETE("/:id", handler.Handle(h.Team.DeleteTeam, http.StatusOK))
}
