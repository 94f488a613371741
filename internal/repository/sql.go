package repository

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
)

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// schemaFor resolves the table of an entity. Unknown entities never reach
// the database.
func schemaFor(entity model.Entity) (*model.Schema, error) {
	s, ok := model.SchemaFor(entity)
	if !ok {
		return nil, errs.UnsupportedTable(entity.String())
	}
	return s, nil
}

// teamRelations hydrates Team.Manager and Team.Users in the same statement
// as the team row itself.
var teamRelations = func() string {
	users, _ := model.SchemaFor(model.Users)
	cols := make([]string, 0, len(users.Columns()))
	for _, c := range users.Columns() {
		cols = append(cols, "u."+quote(c))
	}
	userCols := strings.Join(cols, ", ")
	table := quote(users.Table)

	manager := fmt.Sprintf(
		`(SELECT row_to_json(m) FROM (SELECT %s FROM %s AS u WHERE u."id" = t."manager_id") AS m) AS "manager"`,
		userCols, table,
	)
	members := fmt.Sprintf(
		`(SELECT COALESCE(json_agg(mb ORDER BY mb."name", mb."id"), '[]'::json) FROM (SELECT %s FROM %s AS u WHERE u."team_id" = t."id") AS mb) AS "users"`,
		userCols, table,
	)
	return manager + ", " + members
}()

// selectList renders the projection of s, read from a relation aliased t.
func selectList(s *model.Schema) string {
	cols := s.Columns()
	parts := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		parts = append(parts, "t."+quote(c))
	}
	if s.Entity == model.Teams {
		parts = append(parts, teamRelations)
	}
	return strings.Join(parts, ", ")
}

func selectFrom(s *model.Schema) string {
	return fmt.Sprintf("SELECT %s FROM %s AS t", selectList(s), quote(s.Table))
}

// lookupClause renders "<column> = $n" for a lookup. id wins over name.
func lookupClause(s *model.Schema, lookup model.Lookup, pos int) (string, any, error) {
	if lookup.ID != nil {
		return fmt.Sprintf(`"id" = $%d`, pos), *lookup.ID, nil
	}
	if lookup.Name != nil {
		if !s.Named {
			return "", nil, errs.UnsupportedFilter(s.Table)
		}
		return fmt.Sprintf(`"name" = $%d`, pos), *lookup.Name, nil
	}
	return "", nil, errs.Validation("either 'id' or 'name' is required")
}

// targetClause selects the single row an update or delete acts on. Several
// name matches resolve to the oldest row.
func targetClause(s *model.Schema, where string) string {
	return fmt.Sprintf(`"id" = (SELECT "id" FROM %s WHERE %s ORDER BY "created_at", "id" LIMIT 1)`, quote(s.Table), where)
}

func orderClause(s *model.Schema, order model.Order) string {
	dir := "ASC"
	if order == model.OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY t.%s %s, t.\"id\" %s", quote(s.OrderBy), dir, dir)
}

// writableColumns returns the columns of attrs in schema order together with
// their values.
func writableColumns(s *model.Schema, attrs model.Attributes) ([]string, []any) {
	cols := make([]string, 0, len(attrs))
	args := make([]any, 0, len(attrs))
	for _, f := range s.Fields {
		if v, ok := attrs[f.Name]; ok {
			cols = append(cols, f.Name)
			args = append(args, v)
		}
	}
	return cols, args
}

func insertSQL(s *model.Schema, cols []string) string {
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c)
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"WITH t AS (INSERT INTO %s (%s) VALUES (%s) RETURNING *) SELECT %s FROM t",
		quote(s.Table), strings.Join(names, ", "), strings.Join(params, ", "), selectList(s),
	)
}

// updateSQL sets cols ($1..$n) on the target row; the lookup value is
// parameter n+1.
func updateSQL(s *model.Schema, cols []string, where string) string {
	sets := make([]string, 0, len(cols)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", quote(c), i+1))
	}
	sets = append(sets, `"updated_at" = now()`)
	return fmt.Sprintf(
		"WITH t AS (UPDATE %s SET %s WHERE %s RETURNING *) SELECT %s FROM t",
		quote(s.Table), strings.Join(sets, ", "), targetClause(s, where), selectList(s),
	)
}

func deleteSQL(s *model.Schema, where string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE %s RETURNING "id"`, quote(s.Table), targetClause(s, where))
}
