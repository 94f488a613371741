package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mesbrj/teams-api/internal/config"
	"github.com/mesbrj/teams-api/internal/handler"
	"github.com/mesbrj/teams-api/internal/middleware"
	"github.com/mesbrj/teams-api/internal/model"
	"github.com/mesbrj/teams-api/internal/server"
	"github.com/mesbrj/teams-api/internal/service"
)

type mockManager struct {
	mock.Mock
}

func (m *mockManager) Process(ctx context.Context, op model.Operation, entity model.Entity, payload model.Payload) (service.Result, error) {
	args := m.Called(op, entity)
	return args.Get(0).(service.Result), args.Error(1)
}

func newTestRouter(manager service.DataManager) http.Handler {
	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server:  config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
		},
		Logger: &log,
	}
	return NewRouter(s, handler.NewHandlers(s, &service.Services{Records: manager}))
}

func TestRoutesRegistered(t *testing.T) {
	manager := &mockManager{}
	manager.On("Process", model.OpRead, model.Teams).Return(service.Result{Records: []model.Record{}}, nil)
	r := newTestRouter(manager)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teams", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnexposedEntitiesHaveNoRoutes(t *testing.T) {
	r := newTestRouter(&mockManager{})

	for _, path := range []string{"/project_roles", "/started_projects"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
