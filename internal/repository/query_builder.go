package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
)

var errNoSelect = errors.New("query builder: Select must be called first")

type condition struct {
	column string
	value  any
}

// Query is the ad-hoc read scope handed to QueryRecords callbacks.
//
//	err := repo.QueryRecords(ctx, func(q Query) error {
//		user, err := q.Select(model.Users).Where("email", email).First(ctx)
//		...
//	})
type Query interface {
	Select(entity model.Entity) Query
	Where(column string, value any) Query
	First(ctx context.Context) (model.Record, error)
	All(ctx context.Context) ([]model.Record, error)
}

var _ Query = (*QueryBuilder)(nil)

// QueryBuilder composes a read over one entity with equality filters.
// It is only valid inside the QueryRecords callback that produced it.
type QueryBuilder struct {
	conn   querier
	schema *model.Schema
	where  []condition
	err    error
}

func newQueryBuilder(conn querier) *QueryBuilder {
	return &QueryBuilder{conn: conn}
}

// Select starts a new statement over entity, discarding previous filters.
func (q *QueryBuilder) Select(entity model.Entity) Query {
	q.where = nil
	q.err = nil
	q.schema, q.err = schemaFor(entity)
	return q
}

// Where adds "column = value". Columns outside the entity schema fail the
// statement.
func (q *QueryBuilder) Where(column string, value any) Query {
	if q.err != nil {
		return q
	}
	if q.schema == nil {
		q.err = errNoSelect
		return q
	}
	if !q.schema.HasColumn(column) {
		q.err = errs.Validation(fmt.Sprintf("unknown column '%s' for table '%s'", column, q.schema.Table),
			errs.FieldError{Field: column, Error: "is not a column of " + q.schema.Table})
		return q
	}
	q.where = append(q.where, condition{column: column, value: value})
	return q
}

// First returns the oldest matching record, or nil when nothing matches.
func (q *QueryBuilder) First(ctx context.Context) (model.Record, error) {
	sql, args, err := q.build(func(*model.Schema) string {
		return `ORDER BY t."created_at", t."id" LIMIT 1`
	})
	if err != nil {
		return nil, err
	}
	records, err := runQuery(ctx, q.conn, q.schema.Entity, sql, args...)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// All returns every matching record ordered by the natural key.
func (q *QueryBuilder) All(ctx context.Context) ([]model.Record, error) {
	sql, args, err := q.build(func(s *model.Schema) string {
		return orderClause(s, model.OrderAsc)
	})
	if err != nil {
		return nil, err
	}
	return runQuery(ctx, q.conn, q.schema.Entity, sql, args...)
}

func (q *QueryBuilder) build(tail func(*model.Schema) string) (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	if q.schema == nil {
		return "", nil, errNoSelect
	}

	var b strings.Builder
	b.WriteString(selectFrom(q.schema))

	args := make([]any, 0, len(q.where))
	for i, c := range q.where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "t.%s = $%d", quote(c.column), i+1)
		args = append(args, c.value)
	}

	b.WriteString(" ")
	b.WriteString(tail(q.schema))
	return b.String(), args, nil
}
