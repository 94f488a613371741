package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
	"github.com/mesbrj/teams-api/internal/repository"
	"github.com/mesbrj/teams-api/internal/service"
	"github.com/mesbrj/teams-api/internal/validation"
)

// RecordIDRequest carries the record id from the URL path. A body "id" is
// never bound to it.
type RecordIDRequest struct {
	ID string `param:"id" json:"-"`

	id uuid.UUID
}

func (r *RecordIDRequest) Validate() error {
	id, err := validation.ParseUUID("id", r.ID)
	if err != nil {
		return err
	}
	r.id = id
	return nil
}

// Lookup is only meaningful after Validate succeeded.
func (r *RecordIDRequest) Lookup() model.Lookup {
	return model.ByID(r.id)
}

// QueryInt is an optional integer query parameter.
type QueryInt struct {
	Value int
	Set   bool
}

func (q *QueryInt) UnmarshalParam(param string) error {
	v, err := strconv.Atoi(param)
	if err != nil {
		return err
	}
	q.Value, q.Set = v, true
	return nil
}

func (q QueryInt) ptr() *int {
	if !q.Set {
		return nil
	}
	v := q.Value
	return &v
}

// ListRecordsRequest holds the pagination query of a collection read.
type ListRecordsRequest struct {
	Offset QueryInt `query:"offset"`
	Limit  QueryInt `query:"limit"`
	Order  string   `query:"order" validate:"omitempty,oneof=asc desc"`
}

func (r *ListRecordsRequest) Validate() error {
	if err := validation.ValidateStruct(r); err != nil {
		return err
	}

	var failures validation.CustomValidationErrors
	if r.Offset.Set && r.Offset.Value < model.DefaultOffset {
		failures = append(failures, validation.CustomValidationError{Field: "offset", Message: "must be at least 0"})
	}
	if r.Limit.Set && (r.Limit.Value < 1 || r.Limit.Value > model.DefaultLimit) {
		failures = append(failures, validation.CustomValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("must be between 1 and %d", model.DefaultLimit),
		})
	}
	if len(failures) > 0 {
		return failures
	}
	return nil
}

func (r *ListRecordsRequest) Query() model.ReadQuery {
	return model.ReadQuery{Offset: r.Offset.ptr(), Limit: r.Limit.ptr(), Order: model.Order(r.Order)}
}

// CreatedResponse acknowledges a create.
type CreatedResponse struct {
	RecordID   uuid.UUID `json:"record_id"`
	RecordName string    `json:"record_name"`
}

// records runs the entity-agnostic half of the CRUD endpoints against the
// public data manager.
type records struct {
	entity  model.Entity
	manager service.DataManager
}

func (r records) create(ctx context.Context, payload model.CreatePayload) (model.Record, error) {
	res, err := r.manager.Process(ctx, model.OpCreate, r.entity, payload)
	if err != nil {
		return nil, err
	}
	if res.Record == nil {
		return nil, errs.UnsupportedOperation(string(model.OpCreate))
	}
	return res.Record, nil
}

func (r records) get(ctx context.Context, lookup model.Lookup) (model.Record, error) {
	res, err := r.manager.Process(ctx, model.OpRead, r.entity, model.ReadQuery{Lookup: lookup})
	if err != nil {
		return nil, err
	}
	if res.Record == nil {
		return nil, errs.NotFound(r.entity.String(), lookup.String())
	}
	return res.Record, nil
}

func (r records) list(ctx context.Context, q model.ReadQuery) ([]model.Record, error) {
	res, err := r.manager.Process(ctx, model.OpRead, r.entity, q)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func (r records) update(ctx context.Context, lookup model.Lookup, attrs model.Attributes) (model.Record, error) {
	res, err := r.manager.Process(ctx, model.OpUpdate, r.entity, model.UpdatePayload{Lookup: lookup, Attributes: attrs})
	if err != nil {
		return nil, err
	}
	if res.Record == nil {
		return nil, errs.NotFound(r.entity.String(), lookup.String())
	}
	return res.Record, nil
}

func (r records) delete(ctx context.Context, lookup model.Lookup) (*repository.Confirmation, error) {
	res, err := r.manager.Process(ctx, model.OpDelete, r.entity, model.DeletePayload{Lookup: lookup})
	if err != nil {
		return nil, err
	}
	if res.Confirmation == nil {
		return nil, errs.NotFound(r.entity.String(), lookup.String())
	}
	return res.Confirmation, nil
}

// setAttr copies v into attrs when the client sent it.
func setAttr[T any](attrs model.Attributes, key string, v *T) {
	if v != nil {
		attrs[key] = *v
	}
}
