package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mesbrj/teams-api/internal/errs"
)

// FieldKind tells Coerce how to check a value.
type FieldKind uint8

const (
	KindString FieldKind = iota + 1
	KindEmail
	KindUUID
)

// Field is a writable column.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
}

// Schema describes the table behind an entity.
type Schema struct {
	Entity Entity
	Table  string

	// Fields are the writable columns. id, created_at and updated_at are
	// managed by the database and never listed here.
	Fields []Field

	// OrderBy is the natural key collections are sorted by.
	OrderBy string

	// Named is false for tables without a name column; lookups by name are
	// rejected for them.
	Named bool
}

var registry = map[Entity]*Schema{
	Users: {
		Entity: Users,
		Table:  "users",
		Fields: []Field{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "email", Kind: KindEmail, Required: true},
			{Name: "location", Kind: KindString},
			{Name: "team_id", Kind: KindUUID},
		},
		OrderBy: "name",
		Named:   true,
	},
	Teams: {
		Entity: Teams,
		Table:  "teams",
		Fields: []Field{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "description", Kind: KindString},
			{Name: "manager_id", Kind: KindUUID},
		},
		OrderBy: "name",
		Named:   true,
	},
	Projects: {
		Entity: Projects,
		Table:  "projects",
		Fields: []Field{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "description", Kind: KindString},
		},
		OrderBy: "name",
		Named:   true,
	},
	ProjectRoles: {
		Entity: ProjectRoles,
		Table:  "project_roles",
		Fields: []Field{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "description", Kind: KindString},
		},
		OrderBy: "name",
		Named:   true,
	},
	StartedProjects: {
		Entity: StartedProjects,
		Table:  "started_projects",
		Fields: []Field{
			{Name: "project_id", Kind: KindUUID, Required: true},
			{Name: "user_id", Kind: KindUUID, Required: true},
			{Name: "role_id", Kind: KindUUID},
		},
		OrderBy: "created_at",
		Named:   false,
	},
}

// SchemaFor returns the schema registered for e.
func SchemaFor(e Entity) (*Schema, bool) {
	s, ok := registry[e]
	return s, ok
}

// Field looks up a writable column by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns lists every column selected when reading the table.
func (s *Schema) Columns() []string {
	cols := make([]string, 0, len(s.Fields)+3)
	cols = append(cols, "id")
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	return append(cols, "created_at", "updated_at")
}

// HasColumn reports whether name is a readable column of the table.
func (s *Schema) HasColumn(name string) bool {
	for _, c := range s.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// Coerce sanitizes attrs against the schema: unknown keys and nil values are
// dropped, known values are type checked and normalized (string, uuid.UUID).
// Unless partial is set, required fields must be present.
func (s *Schema) Coerce(attrs Attributes, partial bool) (Attributes, error) {
	out := make(Attributes, len(s.Fields))
	var fieldErrors []errs.FieldError

	for _, f := range s.Fields {
		raw, present := attrs[f.Name]
		value, isNil, problem := coerceValue(f, raw)

		switch {
		case problem != "":
			fieldErrors = append(fieldErrors, errs.FieldError{Field: f.Name, Error: problem})
		case !present || isNil:
			if f.Required && !partial {
				fieldErrors = append(fieldErrors, errs.FieldError{Field: f.Name, Error: "is required"})
			}
		default:
			out[f.Name] = value
		}
	}

	if len(fieldErrors) > 0 {
		return nil, errs.Validation(fmt.Sprintf("invalid %s attributes", s.Entity), fieldErrors...)
	}
	return out, nil
}

// Check is the strict variant used right before a write: any key that is
// not a writable column fails, then the values go through Coerce.
func (s *Schema) Check(attrs Attributes, partial bool) (Attributes, error) {
	var unknown []string
	for key := range attrs {
		if _, ok := s.Field(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		fieldErrors := make([]errs.FieldError, 0, len(unknown))
		for _, key := range unknown {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: key,
				Error: fmt.Sprintf("is not a column of %s", s.Table),
			})
		}
		return nil, errs.Validation(fmt.Sprintf("invalid %s attributes", s.Entity), fieldErrors...)
	}
	return s.Coerce(attrs, partial)
}

// coerceValue returns the normalized value, whether it was nil, and a
// problem description when the value is unusable.
func coerceValue(f Field, raw any) (any, bool, string) {
	switch v := raw.(type) {
	case nil:
		return nil, true, ""
	case *string:
		if v == nil {
			return nil, true, ""
		}
		raw = *v
	case *uuid.UUID:
		if v == nil {
			return nil, true, ""
		}
		raw = *v
	}

	switch f.Kind {
	case KindString, KindEmail:
		str, ok := raw.(string)
		if !ok {
			return nil, false, "must be a string"
		}
		if f.Required && strings.TrimSpace(str) == "" {
			return nil, false, "must not be empty"
		}
		if f.Kind == KindEmail && validate.Var(str, "email") != nil {
			return nil, false, "must be a valid email address"
		}
		return str, false, ""

	case KindUUID:
		switch id := raw.(type) {
		case uuid.UUID:
			if id == uuid.Nil {
				return nil, false, "must be a valid UUID"
			}
			return id, false, ""
		case string:
			parsed, err := uuid.Parse(id)
			if err != nil || parsed == uuid.Nil {
				return nil, false, "must be a valid UUID"
			}
			return parsed, false, ""
		default:
			return nil, false, "must be a valid UUID"
		}
	}

	return nil, false, "has an unsupported type"
}
