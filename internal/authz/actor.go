package authz

import (
	"context"

	"solarforyou/pkg/contextkeys"
	apperrors "solarforyou/pkg/errors"
)

// Actor - аутентифицированный пользователь текущего запроса.
type Actor struct {
	UserID     uint64     `json:"user_id"`
	Username   string     `json:"username"`
	IsStaff    bool       `json:"is_staff"`
	HasProfile bool       `json:"has_profile"`
	Privileges Privileges `json:"privileges"`
}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, actor.UserID)
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

func ActorFromContext(ctx context.Context) (*Actor, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(*Actor)
	if !ok || actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return actor, nil
}
