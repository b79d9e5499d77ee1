package entity

import "time"

// Tipos de notificación.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification aviso generado tras una operación exitosa. Solo isRead cambia después de crearse.
type Notification struct {
	ID        string    `mapstructure:"_id"`
	Title     string    `mapstructure:"title"`
	Message   string    `mapstructure:"message"`
	Type      string    `mapstructure:"type"`
	IsRead    bool      `mapstructure:"isRead"`
	CreatedAt time.Time `mapstructure:"createdAt"`
}

// Document convierte la notificación al formato del almacén (sin _id).
func (n Notification) Document() Document {
	return Document{
		"title":     n.Title,
		"message":   n.Message,
		"type":      n.Type,
		"isRead":    n.IsRead,
		"createdAt": n.CreatedAt,
	}
}

// ValidNotificationType indica si t es uno de los tipos admitidos.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}
