// Package model holds the records persisted by the service, the entity
// registry that describes their tables, and the typed payloads the data
// manager accepts.
//
// Entities are a closed set: users, teams, projects, project_roles and
// started_projects. Everything that dispatches on an entity (schema,
// repository scanner, validation hooks) keys on the Entity type rather than on
// free-form table names.
package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesbrj/teams-api/internal/errs"
)

// Entity identifies one of the record kinds the service manages.
// The zero value is not a valid entity.
type Entity uint8

const (
	Users Entity = iota + 1
	Teams
	Projects
	ProjectRoles
	StartedProjects
)

var entityNames = map[Entity]string{
	Users:           "users",
	Teams:           "teams",
	Projects:        "projects",
	ProjectRoles:    "project_roles",
	StartedProjects: "started_projects",
}

// Entities returns every valid entity in declaration order.
func Entities() []Entity {
	return []Entity{Users, Teams, Projects, ProjectRoles, StartedProjects}
}

func (e Entity) Valid() bool {
	_, ok := entityNames[e]
	return ok
}

func (e Entity) String() string {
	if name, ok := entityNames[e]; ok {
		return name
	}
	return fmt.Sprintf("entity(%d)", uint8(e))
}

func (e Entity) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, errs.UnsupportedEntity(e.String())
	}
	return []byte(e.String()), nil
}

func (e *Entity) UnmarshalText(text []byte) error {
	parsed, err := ParseEntity(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseEntity resolves an entity name ("users", "teams", ...).
func ParseEntity(name string) (Entity, error) {
	for e, n := range entityNames {
		if n == name {
			return e, nil
		}
	}
	return 0, errs.UnsupportedEntity(name)
}

// Operation is a CRUD verb understood by the data manager.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Record is implemented by every persisted row type.
type Record interface {
	Entity() Entity
	RecordID() uuid.UUID
	// RecordName returns the natural name of the record, or "" for tables
	// without a name column.
	RecordName() string
}

// Attributes is a column -> value set handed to the repository.
// Values are string, uuid.UUID or nil after coercion.
type Attributes map[string]any
