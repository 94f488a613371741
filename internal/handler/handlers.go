// Package handler is the HTTP layer: it binds and validates requests, calls
// the public data manager and shapes the responses.
package handler

import (
	"github.com/mesbrj/teams-api/internal/server"
	"github.com/mesbrj/teams-api/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	User    *UserHandler
	Team    *TeamHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		User:    NewUserHandler(s, services),
		Team:    NewTeamHandler(s, services),
	}
}
