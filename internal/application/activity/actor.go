package activity

import (
	"context"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
)

type actorKey struct{}

// WithActor guarda en ctx el nombre de quien ejecuta la operación.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom devuelve el actor de ctx o entity.DefaultActor.
func ActorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return entity.DefaultActor
}

// HasActor indica si ctx trae un actor explícito.
func HasActor(ctx context.Context) bool {
	a, ok := ctx.Value(actorKey{}).(string)
	return ok && a != ""
}
