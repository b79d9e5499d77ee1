package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
	"github.com/jhoicas/asseta-api/pkg/obs"
)

// RoutingKeyCreated routing key publicada por cada notificación nueva.
const RoutingKeyCreated = "notification.created"

// Service casos de uso de notificaciones.
type Service struct {
	coll   repository.DocumentCollection
	events ports.EventPublisher // nil = sin broker
	log    *logger.Logger
	now    func() time.Time
}

var _ ports.Notifier = (*Service)(nil)

// NewService construye el servicio. events puede ser nil.
func NewService(store repository.DocumentStore, events ports.EventPublisher, log *logger.Logger) *Service {
	return &Service{
		coll:   store.Collection(entity.CollectionNotifications),
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Notify crea la notificación y la publica. Nunca falla hacia el llamador.
func (s *Service) Notify(ctx context.Context, title, message, kind string) {
	if _, err := s.create(ctx, title, message, kind); err != nil {
		s.log.Warn().Err(err).Str("title", title).Msg("notificación no creada")
	}
}

func (s *Service) create(ctx context.Context, title, message, kind string) (entity.Document, error) {
	ctx, span := obs.Start(ctx, "notification.create")
	defer span.End()

	if !entity.ValidNotificationType(kind) {
		kind = entity.NotificationInfo
	}
	n := entity.Notification{Title: title, Message: message, Type: kind, CreatedAt: s.now().UTC()}
	doc, err := s.coll.Insert(ctx, n.Document())
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	if s.events != nil {
		if err := s.events.PublishJSON(ctx, RoutingKeyCreated, doc); err != nil {
			s.log.Warn().Err(err).Str("title", title).Msg("evento de notificación no publicado")
		}
	}
	return doc, nil
}

// List devuelve todas las notificaciones, más recientes primero.
func (s *Service) List(ctx context.Context) ([]entity.Document, error) {
	ctx, span := obs.Start(ctx, "notification.list")
	defer span.End()

	docs, err := s.coll.Find(ctx, nil, repository.NewestFirst())
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return docs, nil
}

// MarkRead marca la notificación como leída y la devuelve.
func (s *Service) MarkRead(ctx context.Context, id string) (entity.Document, error) {
	ctx, span := obs.Start(ctx, "notification.mark_read")
	defer span.End()

	doc, err := s.coll.UpdateByID(ctx, id, entity.Document{"isRead": true})
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Delete elimina la notificación (no pasa por la papelera).
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := obs.Start(ctx, "notification.delete")
	defer span.End()

	ok, err := s.coll.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// SendTest crea una notificación de prueba; aquí el error sí se propaga.
func (s *Service) SendTest(ctx context.Context, in dto.TestNotificationRequest) (entity.Document, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Title == "" {
		in.Title = "Test Notification"
	}
	if in.Message == "" {
		in.Message = "This is a sample notification from the server"
	}
	return s.create(ctx, in.Title, in.Message, in.Type)
}
