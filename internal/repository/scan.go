package repository

import (
	"github.com/jackc/pgx/v5"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
)

// collectRecords scans rows into the record type of entity. rows is always
// closed.
func collectRecords(entity model.Entity, rows pgx.Rows) ([]model.Record, error) {
	switch entity {
	case model.Users:
		return collectAs[model.User](rows)
	case model.Teams:
		return collectAs[model.Team](rows)
	case model.Projects:
		return collectAs[model.Project](rows)
	case model.ProjectRoles:
		return collectAs[model.ProjectRole](rows)
	case model.StartedProjects:
		return collectAs[model.StartedProject](rows)
	default:
		rows.Close()
		return nil, errs.UnsupportedTable(entity.String())
	}
}

func collectAs[T any, PT interface {
	*T
	model.Record
}](rows pgx.Rows) ([]model.Record, error) {
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, len(items))
	for i, item := range items {
		out[i] = PT(item)
	}
	return out, nil
}
