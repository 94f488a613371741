package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
)

// A nil pool is fine here: every case fails before a connection is acquired.
func newUnconnected() *RecordRepository {
	return NewRecordRepository(nil)
}

func TestUnsupportedTable(t *testing.T) {
	repo := newUnconnected()
	ctx := context.Background()
	bogus := model.Entity(77)

	_, err := repo.Create(ctx, bogus, model.Attributes{"name": "x"})
	assert.True(t, errors.Is(err, errs.ErrUnsupportedTable))

	_, err = repo.Read(ctx, bogus, model.ReadQuery{})
	assert.True(t, errors.Is(err, errs.ErrUnsupportedTable))

	_, err = repo.Update(ctx, bogus, model.ByID(uuid.New()), model.Attributes{"name": "x"})
	assert.True(t, errors.Is(err, errs.ErrUnsupportedTable))

	_, err = repo.Delete(ctx, bogus, model.ByID(uuid.New()))
	assert.True(t, errors.Is(err, errs.ErrUnsupportedTable))
}

func TestNameLookupOnUnnamedTable(t *testing.T) {
	repo := newUnconnected()
	ctx := context.Background()

	_, err := repo.Read(ctx, model.StartedProjects, model.ReadQuery{Lookup: model.ByName("x")})
	assert.True(t, errors.Is(err, errs.ErrUnsupportedFilter))

	_, err = repo.Update(ctx, model.StartedProjects, model.ByName("x"), model.Attributes{})
	assert.True(t, errors.Is(err, errs.ErrUnsupportedFilter))

	_, err = repo.Delete(ctx, model.StartedProjects, model.ByName("x"))
	assert.True(t, errors.Is(err, errs.ErrUnsupportedFilter))
}

func TestLookupRequired(t *testing.T) {
	repo := newUnconnected()
	ctx := context.Background()

	_, err := repo.Update(ctx, model.Users, model.Lookup{}, model.Attributes{"name": "x"})
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))

	_, err = repo.Delete(ctx, model.Users, model.Lookup{})
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))
}

func TestCreateRejectsBadAttributes(t *testing.T) {
	repo := newUnconnected()

	_, err := repo.Create(context.Background(), model.Projects, model.Attributes{"name": "apollo", "budget": 3})
	var domainErr *errs.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, errs.KindValidationFailure, domainErr.Kind)

	_, err = repo.Create(context.Background(), model.Users, model.Attributes{"name": "Ada"})
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))
}

func TestReadRejectsBadPage(t *testing.T) {
	limit := 0
	_, err := newUnconnected().Read(context.Background(), model.Users, model.ReadQuery{Limit: &limit})
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))
}

func TestQueryBuilderErrors(t *testing.T) {
	ctx := context.Background()

	q := newQueryBuilder(nil)
	_, err := q.Where("email", "a@b.c").First(ctx)
	assert.ErrorIs(t, err, errNoSelect)

	_, err = newQueryBuilder(nil).Select(model.Users).Where("salary", 1).All(ctx)
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))

	_, err = newQueryBuilder(nil).Select(model.Entity(0)).First(ctx)
	assert.True(t, errors.Is(err, errs.ErrUnsupportedTable))
}

func TestQueryBuilderSQL(t *testing.T) {
	q := newQueryBuilder(nil)
	q.Select(model.Users).Where("email", "a@b.c").Where("team_id", uuid.Nil)

	sql, args, err := q.build(func(*model.Schema) string { return "LIMIT 1" })
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, `SELECT t."id", t."name", t."email"`))
	assert.Contains(t, sql, `FROM "users" AS t WHERE t."email" = $1 AND t."team_id" = $2 LIMIT 1`)
	assert.Equal(t, []any{"a@b.c", uuid.Nil}, args)

	// Select resets previous filters.
	q.Select(model.Projects)
	sql, args, err = q.build(func(s *model.Schema) string { return orderClause(s, model.OrderDesc) })
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, `FROM "projects" AS t ORDER BY t."name" DESC, t."id" DESC`))
	assert.Empty(t, args)
}

func TestTeamSelectHydratesRelations(t *testing.T) {
	s, _ := model.SchemaFor(model.Teams)
	sql := selectFrom(s)

	assert.Contains(t, sql, `AS "manager"`)
	assert.Contains(t, sql, `AS "users"`)
	assert.Contains(t, sql, `u."team_id" = t."id"`)

	p, _ := model.SchemaFor(model.Projects)
	assert.NotContains(t, selectFrom(p), `"manager"`)
}

func TestInsertAndUpdateSQL(t *testing.T) {
	s, _ := model.SchemaFor(model.Projects)

	cols, args := writableColumns(s, model.Attributes{"description": "d", "name": "n"})
	assert.Equal(t, []string{"name", "description"}, cols)
	assert.Equal(t, []any{"n", "d"}, args)

	ins := insertSQL(s, cols)
	assert.True(t, strings.HasPrefix(ins, `WITH t AS (INSERT INTO "projects" ("name", "description") VALUES ($1, $2) RETURNING *) SELECT `))

	where, arg, err := lookupClause(s, model.ByName("apollo"), 3)
	require.NoError(t, err)
	assert.Equal(t, `"name" = $3`, where)
	assert.Equal(t, "apollo", arg)

	upd := updateSQL(s, cols, where)
	assert.Contains(t, upd, `SET "name" = $1, "description" = $2, "updated_at" = now()`)
	assert.Contains(t, upd, `WHERE "id" = (SELECT "id" FROM "projects" WHERE "name" = $3 ORDER BY "created_at", "id" LIMIT 1)`)

	del := deleteSQL(s, `"id" = $1`)
	assert.Equal(t, `DELETE FROM "projects" WHERE "id" = (SELECT "id" FROM "projects" WHERE "id" = $1 ORDER BY "created_at", "id" LIMIT 1) RETURNING "id"`, del)
}

func TestLookupClausePrefersID(t *testing.T) {
	s, _ := model.SchemaFor(model.Users)
	id := uuid.New()
	name := "Ada"

	where, arg, err := lookupClause(s, model.Lookup{ID: &id, Name: &name}, 1)
	require.NoError(t, err)
	assert.Equal(t, `"id" = $1`, where)
	assert.Equal(t, id, arg)
}

func TestSelectionFirst(t *testing.T) {
	assert.Nil(t, Selection{Single: true}.First())

	u := &model.User{Name: "Ada"}
	assert.Equal(t, u, Selection{Records: []model.Record{u}}.First())
}
