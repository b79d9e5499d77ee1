package entity

import "time"

// Estados de un ticket. El orden previsto es open → in-progress → resolved,
// pero la capa de datos no lo impone.
const (
	TicketOpen       = "open"
	TicketInProgress = "in-progress"
	TicketResolved   = "resolved"
)

// Valores por defecto de un ticket nuevo.
const (
	DefaultTicketCategory = "General"
	DefaultTicketPriority = "Medium"
)

// SupportTicket ticket de soporte.
type SupportTicket struct {
	ID         string    `mapstructure:"_id"`
	Name       string    `mapstructure:"name"`
	Email      string    `mapstructure:"email"`
	Subject    string    `mapstructure:"subject"`
	Message    string    `mapstructure:"message"`
	Category   string    `mapstructure:"category"`
	Priority   string    `mapstructure:"priority"`
	Status     string    `mapstructure:"status"`
	AdminReply string    `mapstructure:"adminReply"`
	CreatedAt  time.Time `mapstructure:"createdAt"`
	UpdatedAt  time.Time `mapstructure:"updatedAt"`
}

// Document convierte el ticket al formato del almacén (sin _id).
func (t SupportTicket) Document() Document {
	return Document{
		"name":       t.Name,
		"email":      t.Email,
		"subject":    t.Subject,
		"message":    t.Message,
		"category":   t.Category,
		"priority":   t.Priority,
		"status":     t.Status,
		"adminReply": t.AdminReply,
		"createdAt":  t.CreatedAt,
		"updatedAt":  t.UpdatedAt,
	}
}
