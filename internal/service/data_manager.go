// Package service contains the business logic between the HTTP handlers
// and the repository: the data manager that dispatches CRUD operations by
// entity, the pre-create validation hooks, and the public allow-list
// façade handed to the handlers.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
	"github.com/mesbrj/teams-api/internal/repository"
)

// RecordStore is the storage contract the data manager runs on.
// *repository.RecordRepository implements it.
type RecordStore interface {
	Create(ctx context.Context, entity model.Entity, attrs model.Attributes) (model.Record, error)
	Read(ctx context.Context, entity model.Entity, q model.ReadQuery) (repository.Selection, error)
	Update(ctx context.Context, entity model.Entity, lookup model.Lookup, attrs model.Attributes) (model.Record, error)
	Delete(ctx context.Context, entity model.Entity, lookup model.Lookup) (repository.Confirmation, error)
	QueryRecords(ctx context.Context, fn func(q repository.Query) error) error
}

var _ RecordStore = (*repository.RecordRepository)(nil)

// Result carries the outcome of Process. Exactly one field is set for a
// successful call, except single reads that found nothing (all empty).
type Result struct {
	Record       model.Record
	Records      []model.Record
	Confirmation *repository.Confirmation
}

func (r Result) Empty() bool {
	return r.Record == nil && r.Records == nil && r.Confirmation == nil
}

// DataManager runs one CRUD operation against one entity.
type DataManager interface {
	Process(ctx context.Context, op model.Operation, entity model.Entity, payload model.Payload) (Result, error)
}

// DataManagerImpl is stateless apart from its store and hook table, so one
// instance serves all requests.
type DataManagerImpl struct {
	store RecordStore
	hooks map[HookKey]PreCreateHook
}

func NewDataManager(store RecordStore, hooks map[HookKey]PreCreateHook) *DataManagerImpl {
	if hooks == nil {
		hooks = map[HookKey]PreCreateHook{}
	}
	return &DataManagerImpl{store: store, hooks: hooks}
}

func (d *DataManagerImpl) Process(ctx context.Context, op model.Operation, entity model.Entity, payload model.Payload) (Result, error) {
	if !entity.Valid() {
		return Result{}, errs.UnsupportedEntity(entity.String())
	}

	zerolog.Ctx(ctx).Debug().
		Str("operation", string(op)).
		Stringer("entity", entity).
		Msg("processing record operation")

	switch op {
	case model.OpCreate:
		return d.create(ctx, entity, payload)
	case model.OpRead:
		return d.read(ctx, entity, payload)
	case model.OpUpdate:
		return d.update(ctx, entity, payload)
	case model.OpDelete:
		return d.delete(ctx, entity, payload)
	default:
		return Result{}, errs.UnsupportedOperation(string(op))
	}
}

func (d *DataManagerImpl) create(ctx context.Context, entity model.Entity, payload model.Payload) (Result, error) {
	p, ok := payload.(model.CreatePayload)
	if !ok || p.Entity() != entity {
		return Result{}, errs.Validation(fmt.Sprintf("create %s expects a %s create payload", entity, entity))
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	attrs := p.Attributes()
	if hook, ok := d.hooks[HookKey{Operation: model.OpCreate, Entity: entity}]; ok {
		resolved, err := hook(ctx, d.store, attrs)
		if err != nil {
			return Result{}, err
		}
		attrs = resolved
	}

	schema, _ := model.SchemaFor(entity)
	attrs, err := schema.Coerce(attrs, false)
	if err != nil {
		return Result{}, err
	}

	record, err := d.store.Create(ctx, entity, attrs)
	if err != nil {
		return Result{}, err
	}
	return Result{Record: record}, nil
}

func (d *DataManagerImpl) read(ctx context.Context, entity model.Entity, payload model.Payload) (Result, error) {
	var q model.ReadQuery
	switch p := payload.(type) {
	case nil:
	case model.ReadQuery:
		q = p
	case *model.ReadQuery:
		if p != nil {
			q = *p
		}
	default:
		return Result{}, errs.Validation(fmt.Sprintf("read %s expects a read query", entity))
	}
	if q.Order == "" {
		q.Order = model.OrderAsc
	}

	selection, err := d.store.Read(ctx, entity, q)
	if err != nil {
		return Result{}, err
	}
	if selection.Single {
		return Result{Record: selection.First()}, nil
	}
	records := selection.Records
	if records == nil {
		records = []model.Record{}
	}
	return Result{Records: records}, nil
}

func (d *DataManagerImpl) update(ctx context.Context, entity model.Entity, payload model.Payload) (Result, error) {
	var p model.UpdatePayload
	switch v := payload.(type) {
	case model.UpdatePayload:
		p = v
	case *model.UpdatePayload:
		if v == nil {
			return Result{}, errs.Validation(fmt.Sprintf("update %s expects an update payload", entity))
		}
		p = *v
	default:
		return Result{}, errs.Validation(fmt.Sprintf("update %s expects an update payload", entity))
	}
	if err := p.Lookup.Validate(); err != nil {
		return Result{}, err
	}

	schema, _ := model.SchemaFor(entity)
	attrs, err := schema.Coerce(p.Attributes, true)
	if err != nil {
		return Result{}, err
	}

	record, err := d.store.Update(ctx, entity, p.Lookup, attrs)
	if err != nil {
		return Result{}, err
	}
	return Result{Record: record}, nil
}

func (d *DataManagerImpl) delete(ctx context.Context, entity model.Entity, payload model.Payload) (Result, error) {
	var p model.DeletePayload
	switch v := payload.(type) {
	case model.DeletePayload:
		p = v
	case *model.DeletePayload:
		if v == nil {
			return Result{}, errs.Validation(fmt.Sprintf("delete %s expects a delete payload", entity))
		}
		p = *v
	default:
		return Result{}, errs.Validation(fmt.Sprintf("delete %s expects a delete payload", entity))
	}
	if err := p.Lookup.Validate(); err != nil {
		return Result{}, err
	}

	confirmation, err := d.store.Delete(ctx, entity, p.Lookup)
	if err != nil {
		return Result{}, err
	}
	return Result{Confirmation: &confirmation}, nil
}
