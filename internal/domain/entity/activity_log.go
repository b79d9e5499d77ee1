package entity

import "time"

// Acciones registradas en el log de actividad.
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionRestore  = "RESTORE"
	ActionPurge    = "PURGE"
	ActionRegister = "REGISTER"
	ActionLogin    = "LOGIN"
)

// DefaultActor actor usado cuando la petición no trae usuario.
const DefaultActor = "System"

// ActivityLog entrada de solo anexado.
type ActivityLog struct {
	ID        string    `mapstructure:"_id"`
	User      string    `mapstructure:"user"`
	Action    string    `mapstructure:"action"`
	Entity    string    `mapstructure:"entity"`
	Details   string    `mapstructure:"details"`
	CreatedAt time.Time `mapstructure:"createdAt"`
}

// Document convierte la entrada al formato del almacén (sin _id).
func (a ActivityLog) Document() Document {
	return Document{
		"user":      a.User,
		"action":    a.Action,
		"entity":    a.Entity,
		"details":   a.Details,
		"createdAt": a.CreatedAt,
	}
}
