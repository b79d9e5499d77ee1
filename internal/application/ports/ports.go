package ports

import (
	"context"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
)

// EventPublisher puerto de salida hacia el broker de mensajes.
// Cualquier adaptador (RabbitMQ, no-op en pruebas) debe implementar esta interfaz.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
}

// Notifier crea notificaciones en modo best effort: un fallo se registra y nunca se propaga.
type Notifier interface {
	Notify(ctx context.Context, title, message, kind string)
}

// ActivityRecorder anexa entradas al log de actividad en modo best effort.
type ActivityRecorder interface {
	Record(ctx context.Context, action, entityName, details string)
}

// Archiver guarda una copia del documento antes de eliminarlo. A diferencia de
// Notifier, su error sí se propaga: sin archivo no hay borrado.
type Archiver interface {
	Archive(ctx context.Context, entityType string, snapshot entity.Document) error
}

// TicketRenderer genera el documento imprimible de un ticket (PDF).
type TicketRenderer interface {
	RenderTicket(ticket entity.SupportTicket) ([]byte, error)
}
