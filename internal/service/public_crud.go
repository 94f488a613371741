package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mesbrj/teams-api/internal/model"
)

var publicOperations = []model.Operation{model.OpCreate, model.OpRead, model.OpUpdate, model.OpDelete}

var publicEntities = []model.Entity{model.Users, model.Teams, model.Projects}

// PublicCrud is the façade exposed to transport layers. Calls outside the
// allow-list produce an empty Result and no error; nothing reaches the
// wrapped manager.
type PublicCrud struct {
	next    DataManager
	allowed map[HookKey]struct{}
}

// NewPublicCrud exposes the four CRUD operations on users, teams and projects.
func NewPublicCrud(next DataManager) *PublicCrud {
	allowed := make(map[HookKey]struct{}, len(publicOperations)*len(publicEntities))
	for _, op := range publicOperations {
		for _, e := range publicEntities {
			allowed[HookKey{Operation: op, Entity: e}] = struct{}{}
		}
	}
	return &PublicCrud{next: next, allowed: allowed}
}

// Allowed reports whether op on entity is exposed.
func (p *PublicCrud) Allowed(op model.Operation, entity model.Entity) bool {
	_, ok := p.allowed[HookKey{Operation: op, Entity: entity}]
	return ok
}

func (p *PublicCrud) Process(ctx context.Context, op model.Operation, entity model.Entity, payload model.Payload) (Result, error) {
	if !p.Allowed(op, entity) {
		zerolog.Ctx(ctx).Debug().
			Str("operation", string(op)).
			Stringer("entity", entity).
			Msg("operation not exposed, dropping")
		return Result{}, nil
	}
	return p.next.Process(ctx, op, entity, payload)
}
