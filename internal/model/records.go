package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	Location  *string    `json:"location" db:"location"`
	TeamID    *uuid.UUID `json:"team_id" db:"team_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

func (*User) Entity() Entity        { return Users }
func (u *User) RecordID() uuid.UUID { return u.ID }
func (u *User) RecordName() string  { return u.Name }

// Team is read together with its manager and members.
type Team struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	ManagerID   *uuid.UUID `json:"manager_id" db:"manager_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`

	Manager *User  `json:"manager" db:"manager"`
	Users   []User `json:"users" db:"users"`
}

func (*Team) Entity() Entity        { return Teams }
func (t *Team) RecordID() uuid.UUID { return t.ID }
func (t *Team) RecordName() string  { return t.Name }

type Project struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

func (*Project) Entity() Entity        { return Projects }
func (p *Project) RecordID() uuid.UUID { return p.ID }
func (p *Project) RecordName() string  { return p.Name }

type ProjectRole struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

func (*ProjectRole) Entity() Entity        { return ProjectRoles }
func (r *ProjectRole) RecordID() uuid.UUID { return r.ID }
func (r *ProjectRole) RecordName() string  { return r.Name }

// StartedProject links a user to a project, optionally with a role.
// It has no name column and is ordered by creation time.
type StartedProject struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProjectID uuid.UUID  `json:"project_id" db:"project_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	RoleID    *uuid.UUID `json:"role_id" db:"role_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

func (*StartedProject) Entity() Entity        { return StartedProjects }
func (s *StartedProject) RecordID() uuid.UUID { return s.ID }
func (s *StartedProject) RecordName() string  { return "" }
