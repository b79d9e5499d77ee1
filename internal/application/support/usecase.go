package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/asseta-api/internal/application/activity"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
	"github.com/jhoicas/asseta-api/pkg/obs"
)

// activityEntity nombre con el que los tickets aparecen en el log de actividad.
const activityEntity = "Support"

// UseCase casos de uso de tickets de soporte.
type UseCase struct {
	coll     repository.DocumentCollection
	archiver ports.Archiver
	notifier ports.Notifier
	activity ports.ActivityRecorder
	renderer ports.TicketRenderer
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. renderer puede ser nil (sin exportación PDF).
func NewUseCase(
	store repository.DocumentStore,
	archiver ports.Archiver,
	notifier ports.Notifier,
	recorder ports.ActivityRecorder,
	renderer ports.TicketRenderer,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		coll:     store.Collection(entity.CollectionSupport),
		archiver: archiver,
		notifier: notifier,
		activity: recorder,
		renderer: renderer,
		log:      log,
		now:      time.Now,
	}
}

// Schema esquema de los tickets (papelera).
func (uc *UseCase) Schema() entity.Schema { return entity.SupportSchema() }

// List devuelve todos los tickets, más recientes primero.
func (uc *UseCase) List(ctx context.Context) ([]entity.Document, error) {
	ctx, span := obs.Start(ctx, "support.list")
	defer span.End()

	docs, err := uc.coll.Find(ctx, nil, repository.NewestFirst())
	if err != nil {
		return nil, fmt.Errorf("list support: %w", err)
	}
	return docs, nil
}

// Get devuelve un ticket o domain.ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, id string) (entity.Document, error) {
	ctx, span := obs.Start(ctx, "support.get")
	defer span.End()

	doc, err := uc.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get support: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Create abre un ticket en estado "open" con categoría y prioridad por defecto.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSupportRequest) (entity.Document, error) {
	ctx, span := obs.Start(ctx, "support.create")
	defer span.End()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	ticket := entity.SupportTicket{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		Category:  orDefault(in.Category, entity.DefaultTicketCategory),
		Priority:  orDefault(in.Priority, entity.DefaultTicketPriority),
		Status:    entity.TicketOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := uc.coll.Insert(ctx, ticket.Document())
	if err != nil {
		return nil, fmt.Errorf("create support: %w", err)
	}

	if !activity.HasActor(ctx) {
		ctx = activity.WithActor(ctx, ticket.Name)
	}
	uc.notifier.Notify(ctx, "New Support Ticket", "Ticket: "+ticket.Subject, entity.NotificationInfo)
	uc.activity.Record(ctx, entity.ActionCreate, activityEntity, "Ticket created: "+ticket.Subject)
	return stored, nil
}

// Update cambia estado, respuesta, prioridad o categoría. El orden de estados
// no se impone: resolver dos veces deja el ticket resuelto sin error.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateSupportRequest) (entity.Document, error) {
	ctx, span := obs.Start(ctx, "support.update")
	defer span.End()

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	patch := entity.Document{entity.FieldUpdatedAt: uc.now().UTC()}
	if in.Status != nil {
		patch["status"] = *in.Status
	}
	if in.AdminReply != nil {
		patch["adminReply"] = *in.AdminReply
	}
	if in.Priority != nil {
		patch["priority"] = *in.Priority
	}
	if in.Category != nil {
		patch["category"] = *in.Category
	}
	updated, err := uc.coll.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update support: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	var ticket entity.SupportTicket
	if err := entity.Decode(updated, &ticket); err != nil {
		uc.log.Warn().Err(err).Str("id", id).Msg("ticket actualizado ilegible para notificar")
	}
	notified := false
	if in.Status != nil && *in.Status == entity.TicketResolved {
		uc.notifier.Notify(ctx, "Ticket Resolved", "Resolved: "+ticket.Subject, entity.NotificationSuccess)
		notified = true
	}
	if in.AdminReply != nil && strings.TrimSpace(*in.AdminReply) != "" {
		uc.notifier.Notify(ctx, "Support Reply", "Reply to: "+ticket.Subject, entity.NotificationInfo)
		notified = true
	}
	if !notified {
		uc.notifier.Notify(ctx, "Ticket Updated", "Updated: "+ticket.Subject, entity.NotificationInfo)
	}
	uc.activity.Record(ctx, entity.ActionUpdate, activityEntity, "Updated ticket "+id)
	return updated, nil
}

// Delete archiva el ticket y lo elimina.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	ctx, span := obs.Start(ctx, "support.delete")
	defer span.End()

	doc, err := uc.coll.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete support: %w", err)
	}
	if doc == nil {
		return domain.ErrNotFound
	}
	if err := uc.archiver.Archive(ctx, entity.CollectionSupport, doc); err != nil {
		return err
	}
	deleted, err := uc.coll.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete support: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	uc.notifier.Notify(ctx, "Ticket Deleted", "Ticket moved to recycle bin.", entity.NotificationWarning)
	uc.activity.Record(ctx, entity.ActionDelete, activityEntity, "Ticket deleted and moved to recycle bin")
	return nil
}

// Reinstate reinserta un ticket archivado con id nuevo.
func (uc *UseCase) Reinstate(ctx context.Context, snapshot entity.Document) (entity.Document, error) {
	stored, err := uc.coll.Insert(ctx, snapshot.Without(entity.IDField))
	if err != nil {
		return nil, fmt.Errorf("reinstate support: %w", err)
	}
	return stored, nil
}

// PDF exporta el ticket como documento imprimible.
func (uc *UseCase) PDF(ctx context.Context, id string) ([]byte, error) {
	ctx, span := obs.Start(ctx, "support.pdf")
	defer span.End()

	if uc.renderer == nil {
		return nil, fmt.Errorf("exportación PDF no configurada")
	}
	doc, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var ticket entity.SupportTicket
	if err := entity.Decode(doc, &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket: %w", err)
	}
	out, err := uc.renderer.RenderTicket(ticket)
	if err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
