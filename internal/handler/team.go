package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mesbrj/teams-api/internal/model"
	"github.com/mesbrj/teams-api/internal/repository"
	"github.com/mesbrj/teams-api/internal/server"
	"github.com/mesbrj/teams-api/internal/service"
	"github.com/mesbrj/teams-api/internal/validation"
)

// TeamResponse is the API shape of a team, with its manager and members.
type TeamResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	ManagerID   *uuid.UUID     `json:"manager_id"`
	Manager     *UserResponse  `json:"manager"`
	Users       []UserResponse `json:"users"`
	Entity      string         `json:"entity"`
}

func newTeamResponse(t *model.Team) TeamResponse {
	res := TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ManagerID:   t.ManagerID,
		Users:       make([]UserResponse, 0, len(t.Users)),
		Entity:      model.Teams.String(),
	}
	if t.Manager != nil {
		m := newUserResponse(t.Manager)
		res.Manager = &m
	}
	for i := range t.Users {
		res.Users = append(res.Users, newUserResponse(&t.Users[i]))
	}
	return res
}

// UpdateTeamRequest is the body of PATCH /teams/:id.
type UpdateTeamRequest struct {
	RecordIDRequest
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
	ManagerID   *string `json:"manager_id" validate:"omitempty,uuid"`
}

func (r *UpdateTeamRequest) Validate() error {
	if err := r.RecordIDRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r)
}

func (r *UpdateTeamRequest) Attributes() model.Attributes {
	attrs := model.Attributes{}
	setAttr(attrs, "name", r.Name)
	setAttr(attrs, "description", r.Description)
	setAttr(attrs, "manager_id", r.ManagerID)
	return attrs
}

// TeamHandler serves the /teams endpoints.
type TeamHandler struct {
	Handler
	records records
}

func NewTeamHandler(s *server.Server, services *service.Services) *TeamHandler {
	return &TeamHandler{
		Handler: NewHandler(s),
		records: records{entity: model.Teams, manager: services.Records},
	}
}

func (h *TeamHandler) CreateTeam(c echo.Context, req *model.CreateTeamPayload) (*CreatedResponse, error) {
	rec, err := h.records.create(c.Request().Context(), *req)
	if err != nil {
		return nil, err
	}
	return &CreatedResponse{RecordID: rec.RecordID(), RecordName: rec.RecordName()}, nil
}

func (h *TeamHandler) GetTeam(c echo.Context, req *RecordIDRequest) (*TeamResponse, error) {
	rec, err := h.records.get(c.Request().Context(), req.Lookup())
	if err != nil {
		return nil, err
	}
	res := newTeamResponse(rec.(*model.Team))
	return &res, nil
}

func (h *TeamHandler) ListTeams(c echo.Context, req *ListRecordsRequest) ([]TeamResponse, error) {
	recs, err := h.records.list(c.Request().Context(), req.Query())
	if err != nil {
		return nil, err
	}
	out := make([]TeamResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newTeamResponse(rec.(*model.Team)))
	}
	return out, nil
}

func (h *TeamHandler) UpdateTeam(c echo.Context, req *UpdateTeamRequest) (*TeamResponse, error) {
	rec, err := h.records.update(c.Request().Context(), req.Lookup(), req.Attributes())
	if err != nil {
		return nil, err
	}
	res := newTeamResponse(rec.(*model.Team))
	return &res, nil
}

func (h *TeamHandler) DeleteTeam(c echo.Context, req *RecordIDRequest) (*repository.Confirmation, error) {
	return h.records.delete(c.Request().Context(), req.Lookup())
}
