package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mesbrj/teams-api/internal/lib/job"
	"github.com/mesbrj/teams-api/internal/middleware"
	"github.com/mesbrj/teams-api/internal/model"
	"github.com/mesbrj/teams-api/internal/repository"
	"github.com/mesbrj/teams-api/internal/server"
	"github.com/mesbrj/teams-api/internal/service"
	"github.com/mesbrj/teams-api/internal/validation"
)

type welcomeEnqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, p job.WelcomeEmailPayload) error
}

// UserResponse is the API shape of a user.
type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Location *string    `json:"location"`
	TeamID   *uuid.UUID `json:"team_id"`
	Entity   string     `json:"entity"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Location: u.Location,
		TeamID:   u.TeamID,
		Entity:   model.Users.String(),
	}
}

// UpdateUserRequest is the body of PATCH /users/:id. Absent fields are left unchanged.
type UpdateUserRequest struct {
	RecordIDRequest
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	TeamID   *string `json:"team_id" validate:"omitempty,uuid"`
}

func (r *UpdateUserRequest) Validate() error {
	if err := r.RecordIDRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r)
}

func (r *UpdateUserRequest) Attributes() model.Attributes {
	attrs := model.Attributes{}
	setAttr(attrs, "name", r.Name)
	setAttr(attrs, "email", r.Email)
	setAttr(attrs, "location", r.Location)
	setAttr(attrs, "team_id", r.TeamID)
	return attrs
}

// UserHandler serves the /users endpoints.
type UserHandler struct {
	Handler
	records records
	welcome welcomeEnqueuer
}

// NewUserHandler wires the welcome email enqueuer when the job service is available.
func NewUserHandler(s *server.Server, services *service.Services) *UserHandler {
	h := &UserHandler{
		Handler: NewHandler(s),
		records: records{entity: model.Users, manager: services.Records},
	}
	if services.Job != nil {
		h.welcome = services.Job
	}
	return h
}

// CreateUser stores the user and queues the welcome email. A failed enqueue
// is logged, the user is still created.
func (h *UserHandler) CreateUser(c echo.Context, req *model.CreateUserPayload) (*CreatedResponse, error) {
	ctx := c.Request().Context()
	rec, err := h.records.create(ctx, *req)
	if err != nil {
		return nil, err
	}

	if h.welcome != nil {
		teamName := ""
		if req.TeamName != nil {
			teamName = *req.TeamName
		}
		err := h.welcome.EnqueueWelcomeEmail(ctx, job.WelcomeEmailPayload{
			To:       req.Email,
			Name:     req.Name,
			TeamName: teamName,
		})
		if err != nil {
			middleware.GetLogger(c).Error().Err(err).
				Str("user_id", rec.RecordID().String()).
				Msg("failed to enqueue welcome email")
		}
	}

	return &CreatedResponse{RecordID: rec.RecordID(), RecordName: rec.RecordName()}, nil
}

func (h *UserHandler) GetUser(c echo.Context, req *RecordIDRequest) (*UserResponse, error) {
	rec, err := h.records.get(c.Request().Context(), req.Lookup())
	if err != nil {
		return nil, err
	}
	res := newUserResponse(rec.(*model.User))
	return &res, nil
}

func (h *UserHandler) ListUsers(c echo.Context, req *ListRecordsRequest) ([]UserResponse, error) {
	recs, err := h.records.list(c.Request().Context(), req.Query())
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newUserResponse(rec.(*model.User)))
	}
	return out, nil
}

func (h *UserHandler) UpdateUser(c echo.Context, req *UpdateUserRequest) (*UserResponse, error) {
	rec, err := h.records.update(c.Request().Context(), req.Lookup(), req.Attributes())
	if err != nil {
		return nil, err
	}
	res := newUserResponse(rec.(*model.User))
	return &res, nil
}

func (h *UserHandler) DeleteUser(c echo.Context, req *RecordIDRequest) (*repository.Confirmation, error) {
	return h.records.delete(c.Request().Context(), req.Lookup())
}
