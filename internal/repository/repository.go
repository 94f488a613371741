// Package repository handles all interactions with the database.
//
// RecordRepository implements create, read, update and delete over every
// entity of the model registry, plus an ad-hoc QueryBuilder scope. SQL is
// rendered from the entity schema; identifiers are always quoted and values
// always bound as parameters.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
)

// Selection is the outcome of a read. Single reads carry at most one record.
type Selection struct {
	Single  bool
	Records []model.Record
}

// First returns the first record, or nil when the selection is empty.
func (s Selection) First() model.Record {
	if len(s.Records) == 0 {
		return nil
	}
	return s.Records[0]
}

// Confirmation is returned by a successful delete.
type Confirmation struct {
	Message string `json:"message"`
}

// immutableColumns are never written by an update.
var immutableColumns = []string{"id", "created_at", "updated_at"}

type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Create inserts a record and returns it as stored.
func (r *RecordRepository) Create(ctx context.Context, entity model.Entity, attrs model.Attributes) (model.Record, error) {
	s, err := schemaFor(entity)
	if err != nil {
		return nil, err
	}
	checked, err := s.Check(attrs, false)
	if err != nil {
		return nil, err
	}
	cols, args := writableColumns(s, checked)

	records, err := r.query(ctx, entity, insertSQL(s, cols), args...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.StorageFault(fmt.Errorf("insert into %s returned no row", s.Table))
	}
	return records[0], nil
}

// Read returns one record when q carries an id or a name, otherwise a page
// ordered by the natural key of the table.
func (r *RecordRepository) Read(ctx context.Context, entity model.Entity, q model.ReadQuery) (Selection, error) {
	s, err := schemaFor(entity)
	if err != nil {
		return Selection{}, err
	}

	if q.Lookup.IsSet() {
		where, arg, err := lookupClause(s, q.Lookup, 1)
		if err != nil {
			return Selection{}, err
		}
		sql := fmt.Sprintf(`%s WHERE %s ORDER BY t."created_at", t."id" LIMIT 1`, selectFrom(s), where)
		records, err := r.query(ctx, entity, sql, arg)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Single: true, Records: records}, nil
	}

	if err := q.Validate(); err != nil {
		return Selection{}, err
	}
	offset, limit, order := q.Page()
	sql := fmt.Sprintf("%s %s OFFSET $1 LIMIT $2", selectFrom(s), orderClause(s, order))
	records, err := r.query(ctx, entity, sql, offset, limit)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Records: records}, nil
}

// Update applies the non-nil attributes to the record selected by lookup.
// id, created_at and updated_at are ignored. With nothing to apply the
// current record is returned unchanged.
func (r *RecordRepository) Update(ctx context.Context, entity model.Entity, lookup model.Lookup, attrs model.Attributes) (model.Record, error) {
	s, err := schemaFor(entity)
	if err != nil {
		return nil, err
	}
	if err := lookup.Validate(); err != nil {
		return nil, err
	}
	if _, _, err := lookupClause(s, lookup, 1); err != nil {
		return nil, err
	}

	writable := make(model.Attributes, len(attrs))
	for k, v := range attrs {
		writable[k] = v
	}
	for _, c := range immutableColumns {
		delete(writable, c)
	}
	checked, err := s.Check(writable, true)
	if err != nil {
		return nil, err
	}
	cols, args := writableColumns(s, checked)

	if len(cols) == 0 {
		where, arg, err := lookupClause(s, lookup, 1)
		if err != nil {
			return nil, err
		}
		sql := fmt.Sprintf(`%s WHERE %s ORDER BY t."created_at", t."id" LIMIT 1`, selectFrom(s), where)
		records, err := r.query(ctx, entity, sql, arg)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, errs.NotFound(s.Table, lookup.String())
		}
		return records[0], nil
	}

	where, arg, err := lookupClause(s, lookup, len(cols)+1)
	if err != nil {
		return nil, err
	}
	records, err := r.query(ctx, entity, updateSQL(s, cols, where), append(args, arg)...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.NotFound(s.Table, lookup.String())
	}
	return records[0], nil
}

// Delete removes the record selected by lookup.
func (r *RecordRepository) Delete(ctx context.Context, entity model.Entity, lookup model.Lookup) (Confirmation, error) {
	s, err := schemaFor(entity)
	if err != nil {
		return Confirmation{}, err
	}
	if err := lookup.Validate(); err != nil {
		return Confirmation{}, err
	}
	where, arg, err := lookupClause(s, lookup, 1)
	if err != nil {
		return Confirmation{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return Confirmation{}, errs.StorageFault(err)
	}
	defer conn.Release()

	var deleted uuid.UUID
	err = conn.QueryRow(ctx, deleteSQL(s, where), arg).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return Confirmation{}, errs.NotFound(s.Table, lookup.String())
	}
	if err != nil {
		return Confirmation{}, errs.StorageFault(err)
	}
	return Confirmation{Message: "Record deleted successfully"}, nil
}

// QueryRecords runs fn with a Query bound to one pooled connection.
// The connection is released when fn returns.
func (r *RecordRepository) QueryRecords(ctx context.Context, fn func(q Query) error) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return errs.StorageFault(err)
	}
	defer conn.Release()

	return fn(newQueryBuilder(conn))
}

func (r *RecordRepository) query(ctx context.Context, entity model.Entity, sql string, args ...any) ([]model.Record, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, errs.StorageFault(err)
	}
	defer conn.Release()

	return runQuery(ctx, conn, entity, sql, args...)
}

// querier is satisfied by *pgxpool.Conn, *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func runQuery(ctx context.Context, q querier, entity model.Entity, sql string, args ...any) ([]model.Record, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, errs.StorageFault(err)
	}
	records, err := collectRecords(entity, rows)
	if err != nil {
		return nil, errs.StorageFault(err)
	}
	return records, nil
}
