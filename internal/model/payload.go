package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesbrj/teams-api/internal/errs"
)

// Payload is the argument of a data manager call. The set of payloads is
// closed: create payloads, ReadQuery, UpdatePayload and DeletePayload.
type Payload interface {
	isPayload()
}

// CreatePayload is implemented by the per-entity create payloads.
type CreatePayload interface {
	Payload
	Entity() Entity
	// Attributes returns the payload as a column set, soft references
	// (team_name, manager_email) included.
	Attributes() Attributes
	Validate() error
}

// CreateUserPayload creates a user. TeamName is resolved to a team id before the write.
type CreateUserPayload struct {
	Name     string     `json:"name" validate:"required,min=1,max=255"`
	Email    string     `json:"email" validate:"required,email,max=255"`
	Location *string    `json:"location" validate:"omitempty,max=255"`
	TeamName *string    `json:"team_name" validate:"omitempty,min=1,max=255"`
	TeamID   *uuid.UUID `json:"team_id"`
}

func (CreateUserPayload) isPayload()        {}
func (CreateUserPayload) Entity() Entity    { return Users }
func (p CreateUserPayload) Validate() error { return validateStruct(p, "user") }

func (p CreateUserPayload) Attributes() Attributes {
	return Attributes{
		"name":      p.Name,
		"email":     p.Email,
		"location":  p.Location,
		"team_name": p.TeamName,
		"team_id":   p.TeamID,
	}
}

// CreateTeamPayload creates a team. ManagerEmail is resolved to a user id before the write.
type CreateTeamPayload struct {
	Name         string     `json:"name" validate:"required,min=1,max=255"`
	Description  *string    `json:"description" validate:"omitempty,max=1024"`
	ManagerEmail *string    `json:"manager_email" validate:"omitempty,email"`
	ManagerID    *uuid.UUID `json:"manager_id"`
}

func (CreateTeamPayload) isPayload()        {}
func (CreateTeamPayload) Entity() Entity    { return Teams }
func (p CreateTeamPayload) Validate() error { return validateStruct(p, "team") }

func (p CreateTeamPayload) Attributes() Attributes {
	return Attributes{
		"name":          p.Name,
		"description":   p.Description,
		"manager_email": p.ManagerEmail,
		"manager_id":    p.ManagerID,
	}
}

// CreateProjectPayload creates a project.
type CreateProjectPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

func (CreateProjectPayload) isPayload()        {}
func (CreateProjectPayload) Entity() Entity    { return Projects }
func (p CreateProjectPayload) Validate() error { return validateStruct(p, "project") }

func (p CreateProjectPayload) Attributes() Attributes {
	return Attributes{"name": p.Name, "description": p.Description}
}

// CreateProjectRolePayload creates a project role.
type CreateProjectRolePayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

func (CreateProjectRolePayload) isPayload()        {}
func (CreateProjectRolePayload) Entity() Entity    { return ProjectRoles }
func (p CreateProjectRolePayload) Validate() error { return validateStruct(p, "project role") }

func (p CreateProjectRolePayload) Attributes() Attributes {
	return Attributes{"name": p.Name, "description": p.Description}
}

// CreateStartedProjectPayload links a user to a project, optionally with a role.
type CreateStartedProjectPayload struct {
	ProjectID uuid.UUID  `json:"project_id" validate:"required"`
	UserID    uuid.UUID  `json:"user_id" validate:"required"`
	RoleID    *uuid.UUID `json:"role_id"`
}

func (CreateStartedProjectPayload) isPayload()        {}
func (CreateStartedProjectPayload) Entity() Entity    { return StartedProjects }
func (p CreateStartedProjectPayload) Validate() error { return validateStruct(p, "started project") }

func (p CreateStartedProjectPayload) Attributes() Attributes {
	return Attributes{"project_id": p.ProjectID, "user_id": p.UserID, "role_id": p.RoleID}
}

// Order is the sort direction of a collection read.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func (o Order) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// Pagination defaults for collection reads.
const (
	DefaultOffset = 0
	DefaultLimit  = 100
)

// Lookup selects a single record by id or by name.
type Lookup struct {
	ID   *uuid.UUID
	Name *string
}

// ByID and ByName build single-record lookups.
func ByID(id uuid.UUID) Lookup  { return Lookup{ID: &id} }
func ByName(name string) Lookup { return Lookup{Name: &name} }
func (l Lookup) IsSet() bool    { return l.ID != nil || l.Name != nil }

// Validate requires exactly one of id or name.
func (l Lookup) Validate() error {
	if l.ID != nil && l.Name != nil {
		return errs.Validation("only one of 'id' or 'name' may be given")
	}
	if !l.IsSet() {
		return errs.Validation("either 'id' or 'name' is required")
	}
	return nil
}

// String renders the lookup for messages: "id '…'" or "name '…'".
func (l Lookup) String() string {
	switch {
	case l.ID != nil:
		return fmt.Sprintf("id '%s'", l.ID)
	case l.Name != nil:
		return fmt.Sprintf("name '%s'", *l.Name)
	default:
		return "no identifier"
	}
}

// ReadQuery reads one record (Lookup set) or a page of records.
// Offset and Limit are ignored for single lookups.
type ReadQuery struct {
	Lookup
	Offset *int
	Limit  *int
	Order  Order
}

func (ReadQuery) isPayload() {}

// Page resolves pagination with defaults applied.
func (q ReadQuery) Page() (offset, limit int, order Order) {
	offset, limit, order = DefaultOffset, DefaultLimit, OrderAsc
	if q.Offset != nil {
		offset = *q.Offset
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	if q.Order != "" {
		order = q.Order
	}
	return offset, limit, order
}

// Validate rejects negative offsets, non-positive limits and unknown orders.
func (q ReadQuery) Validate() error {
	var fieldErrors []errs.FieldError
	if q.Offset != nil && *q.Offset < 0 {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "offset", Error: "must be 0 or greater"})
	}
	if q.Limit != nil && *q.Limit < 1 {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "limit", Error: "must be 1 or greater"})
	}
	if q.Order != "" && !q.Order.Valid() {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "order", Error: "must be one of asc, desc"})
	}
	if len(fieldErrors) > 0 {
		return errs.Validation("invalid read query", fieldErrors...)
	}
	return nil
}

// UpdatePayload changes the record selected by Lookup. Nil attribute values
// are not applied.
type UpdatePayload struct {
	Lookup
	Attributes Attributes
}

func (UpdatePayload) isPayload() {}

// DeletePayload removes the record selected by Lookup.
type DeletePayload struct {
	Lookup
}

func (DeletePayload) isPayload() {}
