package service

import (
	"context"
	"maps"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
	"github.com/mesbrj/teams-api/internal/repository"
)

// HookKey selects the hook run for an (operation, entity) pair.
type HookKey struct {
	Operation model.Operation
	Entity    model.Entity
}

// PreCreateHook rewrites create attributes before they reach storage. It
// may read through store but must not write.
type PreCreateHook func(ctx context.Context, store RecordStore, attrs model.Attributes) (model.Attributes, error)

// DefaultHooks resolves human-friendly references on create: a user's
// team_name becomes team_id, a team's manager_email becomes manager_id.
func DefaultHooks() map[HookKey]PreCreateHook {
	return map[HookKey]PreCreateHook{
		{Operation: model.OpCreate, Entity: model.Users}: resolveUserTeam,
		{Operation: model.OpCreate, Entity: model.Teams}: resolveTeamManager,
	}
}

func resolveUserTeam(ctx context.Context, store RecordStore, attrs model.Attributes) (model.Attributes, error) {
	name, ok := stringAttr(attrs, "team_name")
	if !ok {
		return attrs, nil
	}

	selection, err := store.Read(ctx, model.Teams, model.ReadQuery{Lookup: model.ByName(name)})
	if err != nil {
		return nil, err
	}
	team := selection.First()
	if team == nil {
		return nil, errs.UnresolvedReference("team '%s' does not exist", name)
	}

	out := maps.Clone(attrs)
	delete(out, "team_name")
	out["team_id"] = team.RecordID()
	return out, nil
}

func resolveTeamManager(ctx context.Context, store RecordStore, attrs model.Attributes) (model.Attributes, error) {
	email, ok := stringAttr(attrs, "manager_email")
	if !ok {
		return attrs, nil
	}

	var manager model.Record
	err := store.QueryRecords(ctx, func(q repository.Query) error {
		var err error
		manager, err = q.Select(model.Users).Where("email", email).First(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, errs.UnresolvedReference("user with email '%s' does not exist", email)
	}

	out := maps.Clone(attrs)
	delete(out, "manager_email")
	out["manager_id"] = manager.RecordID()
	return out, nil
}

func stringAttr(attrs model.Attributes, key string) (string, bool) {
	switch v := attrs[key].(type) {
	case string:
		return v, v != ""
	case *string:
		if v == nil || *v == "" {
			return "", false
		}
		return *v, true
	default:
		return "", false
	}
}
