//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mesbrj/teams-api/internal/database"
	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
)

// startPostgres runs a throwaway PostgreSQL, applies the migrations and
// returns a repository over it.
func startPostgres(t *testing.T) *RecordRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "teams",
				"POSTGRES_PASSWORD": "teams",
				"POSTGRES_DB":       "teams",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://teams:teams@%s:%s/teams?sslmode=disable", host, port.Port())
	logger := zerolog.Nop()
	require.NoError(t, database.MigrateDSN(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewRecordRepository(pool)
}

func TestIntegrationRecordLifecycle(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	t.Run("create then read by id returns the same record", func(t *testing.T) {
		created, err := repo.Create(ctx, model.Projects, model.Attributes{"name": "apollo", "description": "moon"})
		require.NoError(t, err)

		sel, err := repo.Read(ctx, model.Projects, model.ReadQuery{Lookup: model.ByID(created.RecordID())})
		require.NoError(t, err)
		require.True(t, sel.Single)
		got := sel.First().(*model.Project)
		assert.Equal(t, "apollo", got.Name)
		require.NotNil(t, got.Description)
		assert.Equal(t, "moon", *got.Description)
		assert.Nil(t, got.UpdatedAt)
	})

	t.Run("pagination follows the natural key", func(t *testing.T) {
		for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
			_, err := repo.Create(ctx, model.ProjectRoles, model.Attributes{"name": name})
			require.NoError(t, err)
		}

		offset, limit := 1, 2
		sel, err := repo.Read(ctx, model.ProjectRoles, model.ReadQuery{Offset: &offset, Limit: &limit, Order: model.OrderAsc})
		require.NoError(t, err)
		require.Len(t, sel.Records, 2)
		assert.Equal(t, "bravo", sel.Records[0].RecordName())
		assert.Equal(t, "charlie", sel.Records[1].RecordName())

		sel, err = repo.Read(ctx, model.ProjectRoles, model.ReadQuery{Order: model.OrderDesc})
		require.NoError(t, err)
		require.Len(t, sel.Records, 4)
		assert.Equal(t, "delta", sel.Records[0].RecordName())

		offset = 10
		sel, err = repo.Read(ctx, model.ProjectRoles, model.ReadQuery{Offset: &offset})
		require.NoError(t, err)
		assert.Empty(t, sel.Records)
	})

	t.Run("unique violations are storage faults", func(t *testing.T) {
		_, err := repo.Create(ctx, model.Users, model.Attributes{"name": "Ada", "email": "ada@example.com"})
		require.NoError(t, err)

		_, err = repo.Create(ctx, model.Users, model.Attributes{"name": "Ada Two", "email": "ada@example.com"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStorageFault))

		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr))
		assert.Equal(t, "23505", pgErr.Code)
	})

	t.Run("teams load their manager and members", func(t *testing.T) {
		lead, err := repo.Create(ctx, model.Users, model.Attributes{"name": "Lead", "email": "lead@example.com"})
		require.NoError(t, err)

		team, err := repo.Create(ctx, model.Teams, model.Attributes{"name": "core", "manager_id": lead.RecordID()})
		require.NoError(t, err)
		assert.Empty(t, team.(*model.Team).Users)

		for _, n := range []string{"Zoe", "Bob"} {
			_, err := repo.Create(ctx, model.Users, model.Attributes{
				"name":    n,
				"email":   n + "@example.com",
				"team_id": team.RecordID(),
			})
			require.NoError(t, err)
		}

		sel, err := repo.Read(ctx, model.Teams, model.ReadQuery{Lookup: model.ByName("core")})
		require.NoError(t, err)
		got := sel.First().(*model.Team)
		require.NotNil(t, got.Manager)
		assert.Equal(t, "lead@example.com", got.Manager.Email)
		require.Len(t, got.Users, 2)
		assert.Equal(t, "Bob", got.Users[0].Name)
		assert.Equal(t, "Zoe", got.Users[1].Name)
	})

	t.Run("update by name renames and stamps updated_at", func(t *testing.T) {
		_, err := repo.Create(ctx, model.Projects, model.Attributes{"name": "gemini"})
		require.NoError(t, err)

		rec, err := repo.Update(ctx, model.Projects, model.ByName("gemini"), model.Attributes{
			"name": "gemini-2",
			"id":   uuid.New(),
		})
		require.NoError(t, err)
		p := rec.(*model.Project)
		assert.Equal(t, "gemini-2", p.Name)
		assert.NotNil(t, p.UpdatedAt)

		same, err := repo.Update(ctx, model.Projects, model.ByID(p.ID), model.Attributes{})
		require.NoError(t, err)
		assert.Equal(t, p.ID, same.RecordID())
	})

	t.Run("null name on a name-keyed update keeps the name", func(t *testing.T) {
		_, err := repo.Create(ctx, model.Teams, model.Attributes{"name": "research"})
		require.NoError(t, err)

		rec, err := repo.Update(ctx, model.Teams, model.ByName("research"), model.Attributes{
			"name":        nil,
			"description": "d",
		})
		require.NoError(t, err)
		team := rec.(*model.Team)
		assert.Equal(t, "research", team.Name)
		require.NotNil(t, team.Description)
		assert.Equal(t, "d", *team.Description)
	})

	t.Run("team names are unique", func(t *testing.T) {
		_, err := repo.Create(ctx, model.Teams, model.Attributes{"name": "platform"})
		require.NoError(t, err)

		_, err = repo.Create(ctx, model.Teams, model.Attributes{"name": "platform", "description": "again"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStorageFault))

		var matches []model.Record
		err = repo.QueryRecords(ctx, func(q Query) error {
			var err error
			matches, err = q.Select(model.Teams).Where("name", "platform").All(ctx)
			return err
		})
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("deleting a team detaches its members", func(t *testing.T) {
		team, err := repo.Create(ctx, model.Teams, model.Attributes{"name": "ops"})
		require.NoError(t, err)
		member, err := repo.Create(ctx, model.Users, model.Attributes{
			"name":    "Linus",
			"email":   "linus@example.com",
			"team_id": team.RecordID(),
		})
		require.NoError(t, err)
		require.NotNil(t, member.(*model.User).TeamID)

		_, err = repo.Delete(ctx, model.Teams, model.ByID(team.RecordID()))
		require.NoError(t, err)

		sel, err := repo.Read(ctx, model.Users, model.ReadQuery{Lookup: model.ByID(member.RecordID())})
		require.NoError(t, err)
		got := sel.First()
		require.NotNil(t, got)
		assert.Nil(t, got.(*model.User).TeamID)
	})

	t.Run("missing targets are not found", func(t *testing.T) {
		_, err := repo.Update(ctx, model.Projects, model.ByID(uuid.New()), model.Attributes{"name": "x"})
		assert.True(t, errors.Is(err, errs.ErrNotFound))

		_, err = repo.Update(ctx, model.Projects, model.ByName("nope"), model.Attributes{})
		assert.True(t, errors.Is(err, errs.ErrNotFound))

		_, err = repo.Delete(ctx, model.Teams, model.ByName("nope"))
		assert.True(t, errors.Is(err, errs.ErrNotFound))
		assert.Equal(t, "record with name 'nope' not found in table 'teams'", err.Error())
	})

	t.Run("delete removes the record", func(t *testing.T) {
		rec, err := repo.Create(ctx, model.Projects, model.Attributes{"name": "mercury"})
		require.NoError(t, err)

		conf, err := repo.Delete(ctx, model.Projects, model.ByID(rec.RecordID()))
		require.NoError(t, err)
		assert.Equal(t, "Record deleted successfully", conf.Message)

		sel, err := repo.Read(ctx, model.Projects, model.ReadQuery{Lookup: model.ByID(rec.RecordID())})
		require.NoError(t, err)
		assert.Nil(t, sel.First())
	})

	t.Run("started projects link users and projects", func(t *testing.T) {
		user, err := repo.Create(ctx, model.Users, model.Attributes{"name": "Grace", "email": "grace@example.com"})
		require.NoError(t, err)
		project, err := repo.Create(ctx, model.Projects, model.Attributes{"name": "voyager"})
		require.NoError(t, err)

		link, err := repo.Create(ctx, model.StartedProjects, model.Attributes{
			"project_id": project.RecordID(),
			"user_id":    user.RecordID(),
		})
		require.NoError(t, err)
		sp := link.(*model.StartedProject)
		assert.Equal(t, project.RecordID(), sp.ProjectID)
		assert.Nil(t, sp.RoleID)

		_, err = repo.Create(ctx, model.StartedProjects, model.Attributes{
			"project_id": project.RecordID(),
			"user_id":    user.RecordID(),
		})
		assert.True(t, errors.Is(err, errs.ErrStorageFault))

		_, err = repo.Delete(ctx, model.Projects, model.ByID(project.RecordID()))
		require.NoError(t, err)
		sel, err := repo.Read(ctx, model.StartedProjects, model.ReadQuery{Lookup: model.ByID(sp.ID)})
		require.NoError(t, err)
		assert.Nil(t, sel.First())
	})

	t.Run("query builder finds by email", func(t *testing.T) {
		var found model.Record
		err := repo.QueryRecords(ctx, func(q Query) error {
			var err error
			found, err = q.Select(model.Users).Where("email", "grace@example.com").First(ctx)
			return err
		})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Grace", found.RecordName())

		err = repo.QueryRecords(ctx, func(q Query) error {
			var err error
			found, err = q.Select(model.Users).Where("email", "ghost@example.com").First(ctx)
			return err
		})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
