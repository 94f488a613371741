package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
	"github.com/mesbrj/teams-api/internal/repository"
)

type mockStore struct {
	mock.Mock
	query repository.Query
}

func (m *mockStore) Create(ctx context.Context, entity model.Entity, attrs model.Attributes) (model.Record, error) {
	args := m.Called(ctx, entity, attrs)
	rec, _ := args.Get(0).(model.Record)
	return rec, args.Error(1)
}

func (m *mockStore) Read(ctx context.Context, entity model.Entity, q model.ReadQuery) (repository.Selection, error) {
	args := m.Called(ctx, entity, q)
	return args.Get(0).(repository.Selection), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, entity model.Entity, lookup model.Lookup, attrs model.Attributes) (model.Record, error) {
	args := m.Called(ctx, entity, lookup, attrs)
	rec, _ := args.Get(0).(model.Record)
	return rec, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, entity model.Entity, lookup model.Lookup) (repository.Confirmation, error) {
	args := m.Called(ctx, entity, lookup)
	return args.Get(0).(repository.Confirmation), args.Error(1)
}

func (m *mockStore) QueryRecords(ctx context.Context, fn func(q repository.Query) error) error {
	m.Called(ctx)
	return fn(m.query)
}

type mockQuery struct {
	mock.Mock
}

func (m *mockQuery) Select(entity model.Entity) repository.Query {
	m.Called(entity)
	return m
}

func (m *mockQuery) Where(column string, value any) repository.Query {
	m.Called(column, value)
	return m
}

func (m *mockQuery) First(ctx context.Context) (model.Record, error) {
	args := m.Called(ctx)
	rec, _ := args.Get(0).(model.Record)
	return rec, args.Error(1)
}

func (m *mockQuery) All(ctx context.Context) ([]model.Record, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]model.Record)
	return recs, args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestProcessUnsupportedEntity(t *testing.T) {
	store := &mockStore{}
	dm := NewDataManager(store, DefaultHooks())

	_, err := dm.Process(context.Background(), model.OpRead, model.Entity(99), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnsupportedEntity))
	store.AssertNotCalled(t, "Read", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessUnsupportedOperation(t *testing.T) {
	dm := NewDataManager(&mockStore{}, nil)

	_, err := dm.Process(context.Background(), model.Operation("merge"), model.Users, nil)
	assert.True(t, errors.Is(err, errs.ErrUnsupportedOperation))
}

func TestCreateUserResolvesTeamName(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	store := &mockStore{}

	store.On("Read", ctx, model.Teams, model.ReadQuery{Lookup: model.ByName("platform")}).
		Return(repository.Selection{Single: true, Records: []model.Record{&model.Team{ID: teamID, Name: "platform"}}}, nil).Once()

	created := &model.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", TeamID: &teamID}
	store.On("Create", ctx, model.Users, model.Attributes{
		"name":    "Ada",
		"email":   "ada@example.com",
		"team_id": teamID,
	}).Return(created, nil).Once()

	dm := NewDataManager(store, DefaultHooks())
	res, err := dm.Process(ctx, model.OpCreate, model.Users, model.CreateUserPayload{
		Name:     "Ada",
		Email:    "ada@example.com",
		TeamName: ptr("platform"),
	})
	require.NoError(t, err)
	assert.Equal(t, created, res.Record)
	store.AssertExpectations(t)
}

func TestCreateUserUnknownTeamWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("Read", ctx, model.Teams, mock.Anything).Return(repository.Selection{Single: true}, nil).Once()

	dm := NewDataManager(store, DefaultHooks())
	_, err := dm.Process(ctx, model.OpCreate, model.Users, model.CreateUserPayload{
		Name:     "Ada",
		Email:    "ada@example.com",
		TeamName: ptr("ghosts"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnresolvedReference))
	assert.Equal(t, "team 'ghosts' does not exist", err.Error())
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTeamResolvesManagerEmail(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New()

	q := &mockQuery{}
	q.On("Select", model.Users).Once()
	q.On("Where", "email", "lead@example.com").Once()
	q.On("First", ctx).Return(&model.User{ID: managerID, Name: "Lead"}, nil).Once()

	store := &mockStore{query: q}
	store.On("QueryRecords", ctx).Once()
	created := &model.Team{ID: uuid.New(), Name: "core", ManagerID: &managerID}
	store.On("Create", ctx, model.Teams, model.Attributes{
		"name":       "core",
		"manager_id": managerID,
	}).Return(created, nil).Once()

	dm := NewDataManager(store, DefaultHooks())
	res, err := dm.Process(ctx, model.OpCreate, model.Teams, model.CreateTeamPayload{
		Name:         "core",
		ManagerEmail: ptr("lead@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, created, res.Record)
	store.AssertExpectations(t)
	q.AssertExpectations(t)
}

func TestCreateTeamUnknownManager(t *testing.T) {
	ctx := context.Background()
	q := &mockQuery{}
	q.On("Select", model.Users)
	q.On("Where", "email", "nobody@example.com")
	q.On("First", ctx).Return(nil, nil)

	store := &mockStore{query: q}
	store.On("QueryRecords", ctx)

	dm := NewDataManager(store, DefaultHooks())
	_, err := dm.Process(ctx, model.OpCreate, model.Teams, model.CreateTeamPayload{
		Name:         "core",
		ManagerEmail: ptr("nobody@example.com"),
	})
	assert.True(t, errors.Is(err, errs.ErrUnresolvedReference))
	assert.Equal(t, "user with email 'nobody@example.com' does not exist", err.Error())
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRejectsMismatchedPayload(t *testing.T) {
	store := &mockStore{}
	dm := NewDataManager(store, DefaultHooks())

	_, err := dm.Process(context.Background(), model.OpCreate, model.Teams, model.CreateProjectPayload{Name: "apollo"})
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))

	_, err = dm.Process(context.Background(), model.OpCreate, model.Users, model.CreateUserPayload{Name: "Ada"})
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReadDefaultsOrderAndWrapsLists(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("Read", ctx, model.Projects, model.ReadQuery{Order: model.OrderAsc}).
		Return(repository.Selection{}, nil).Once()

	dm := NewDataManager(store, nil)
	res, err := dm.Process(ctx, model.OpRead, model.Projects, model.ReadQuery{})
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
	assert.Nil(t, res.Record)
	store.AssertExpectations(t)
}

func TestReadSingleMiss(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := &mockStore{}
	store.On("Read", ctx, model.Users, model.ReadQuery{Lookup: model.ByID(id), Order: model.OrderAsc}).
		Return(repository.Selection{Single: true}, nil).Once()

	dm := NewDataManager(store, nil)
	res, err := dm.Process(ctx, model.OpRead, model.Users, &model.ReadQuery{Lookup: model.ByID(id)})
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestUpdateCoercesAttributes(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := &mockStore{}
	updated := &model.Project{ID: id, Name: "apollo-2"}
	store.On("Update", ctx, model.Projects, model.ByID(id), model.Attributes{"name": "apollo-2"}).
		Return(updated, nil).Once()

	dm := NewDataManager(store, nil)
	res, err := dm.Process(ctx, model.OpUpdate, model.Projects, model.UpdatePayload{
		Lookup:     model.ByID(id),
		Attributes: model.Attributes{"name": "apollo-2", "unknown": "dropped"},
	})
	require.NoError(t, err)
	assert.Equal(t, updated, res.Record)
	store.AssertExpectations(t)
}

func TestUpdateRequiresLookup(t *testing.T) {
	store := &mockStore{}
	dm := NewDataManager(store, nil)

	_, err := dm.Process(context.Background(), model.OpUpdate, model.Projects, model.UpdatePayload{
		Attributes: model.Attributes{"name": "x"},
	})
	assert.True(t, errors.Is(err, errs.ErrValidationFailure))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteReturnsConfirmation(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("Delete", ctx, model.Teams, model.ByName("core")).
		Return(repository.Confirmation{Message: "Record deleted successfully"}, nil).Once()

	dm := NewDataManager(store, nil)
	res, err := dm.Process(ctx, model.OpDelete, model.Teams, model.DeletePayload{Lookup: model.ByName("core")})
	require.NoError(t, err)
	require.NotNil(t, res.Confirmation)
	assert.Equal(t, "Record deleted successfully", res.Confirmation.Message)
}

func TestDeleteNotFoundPropagates(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := &mockStore{}
	store.On("Delete", ctx, model.Users, model.ByID(id)).
		Return(repository.Confirmation{}, errs.NotFound("users", model.ByID(id).String())).Once()

	dm := NewDataManager(store, nil)
	_, err := dm.Process(ctx, model.OpDelete, model.Users, model.DeletePayload{Lookup: model.ByID(id)})
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

type mockManager struct {
	mock.Mock
}

func (m *mockManager) Process(ctx context.Context, op model.Operation, entity model.Entity, payload model.Payload) (Result, error) {
	args := m.Called(ctx, op, entity, payload)
	return args.Get(0).(Result), args.Error(1)
}

func TestPublicCrudAllowList(t *testing.T) {
	crud := NewPublicCrud(&mockManager{})

	for _, e := range []model.Entity{model.Users, model.Teams, model.Projects} {
		for _, op := range []model.Operation{model.OpCreate, model.OpRead, model.OpUpdate, model.OpDelete} {
			assert.True(t, crud.Allowed(op, e), "%s %s", op, e)
		}
	}
	assert.False(t, crud.Allowed(model.OpCreate, model.ProjectRoles))
	assert.False(t, crud.Allowed(model.OpRead, model.StartedProjects))
	assert.False(t, crud.Allowed(model.Operation("merge"), model.Users))
}

func TestPublicCrudDropsSilently(t *testing.T) {
	next := &mockManager{}
	crud := NewPublicCrud(next)

	res, err := crud.Process(context.Background(), model.OpCreate, model.ProjectRoles, model.CreateProjectRolePayload{Name: "lead"})
	require.NoError(t, err)
	assert.True(t, res.Empty())

	res, err = crud.Process(context.Background(), model.OpRead, model.Entity(99), nil)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	next.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublicCrudForwards(t *testing.T) {
	ctx := context.Background()
	next := &mockManager{}
	want := Result{Records: []model.Record{&model.Project{Name: "apollo"}}}
	next.On("Process", ctx, model.OpRead, model.Projects, model.ReadQuery{}).Return(want, nil).Once()

	res, err := NewPublicCrud(next).Process(ctx, model.OpRead, model.Projects, model.ReadQuery{})
	require.NoError(t, err)
	assert.Equal(t, want, res)
	next.AssertExpectations(t)
}
