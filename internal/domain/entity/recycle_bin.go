package entity

import "time"

// RecycleBinEntry copia puntual de un documento eliminado.
// Data nunca se modifica después de archivarse.
type RecycleBinEntry struct {
	ID         string    `mapstructure:"_id"`
	EntityType string    `mapstructure:"entityType"`
	Data       Document  `mapstructure:"data"`
	DeletedAt  time.Time `mapstructure:"deletedAt"`
}

// Document convierte la entrada al formato del almacén (sin _id).
func (e RecycleBinEntry) Document() Document {
	return Document{
		"entityType": e.EntityType,
		"data":       e.Data.Clone(),
		"deletedAt":  e.DeletedAt,
	}
}
