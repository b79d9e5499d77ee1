package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
	"github.com/jhoicas/asseta-api/pkg/obs"
)

// Service log de actividad de solo anexado.
type Service struct {
	coll repository.DocumentCollection
	log  *logger.Logger
	now  func() time.Time
}

var _ ports.ActivityRecorder = (*Service)(nil)

// NewService construye el servicio.
func NewService(store repository.DocumentStore, log *logger.Logger) *Service {
	return &Service{coll: store.Collection(entity.CollectionActivityLogs), log: log, now: time.Now}
}

// Record anexa una entrada con el actor de ctx. Los fallos solo se registran.
func (s *Service) Record(ctx context.Context, action, entityName, details string) {
	ctx, span := obs.Start(ctx, "activity.record")
	defer span.End()

	entry := entity.ActivityLog{
		User:      ActorFrom(ctx),
		Action:    action,
		Entity:    entityName,
		Details:   details,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.coll.Insert(ctx, entry.Document()); err != nil {
		s.log.Warn().Err(err).Str("action", action).Str("entity", entityName).Msg("actividad no registrada")
	}
}

// List devuelve el log completo, más reciente primero.
func (s *Service) List(ctx context.Context) ([]entity.Document, error) {
	ctx, span := obs.Start(ctx, "activity.list")
	defer span.End()

	docs, err := s.coll.Find(ctx, nil, repository.NewestFirst())
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return docs, nil
}
