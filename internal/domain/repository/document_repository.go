package repository

import (
	"context"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
)

// Filter condiciones de igualdad por campo; un valor LessThan expresa "campo < valor".
type Filter map[string]any

// LessThan condición de comparación estricta para Filter.
type LessThan struct {
	Value any
}

// SortOrder orden de resultados para Find.
type SortOrder struct {
	Field string
	Desc  bool
}

// NewestFirst orden por createdAt descendente.
func NewestFirst() *SortOrder {
	return &SortOrder{Field: entity.FieldCreatedAt, Desc: true}
}

// DocumentStore define el puerto de persistencia de documentos (DIP).
type DocumentStore interface {
	Collection(name string) DocumentCollection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// DocumentCollection operaciones de un documento a la vez sobre una colección.
// FindByID y UpdateByID devuelven nil, nil cuando el documento no existe.
type DocumentCollection interface {
	Name() string
	// Insert guarda doc (se ignora cualquier _id recibido) y devuelve el documento almacenado.
	Insert(ctx context.Context, doc entity.Document) (entity.Document, error)
	FindByID(ctx context.Context, id string) (entity.Document, error)
	// FindOne devuelve el primer documento que cumple filter o nil.
	FindOne(ctx context.Context, filter Filter) (entity.Document, error)
	Find(ctx context.Context, filter Filter, sort *SortOrder) ([]entity.Document, error)
	// UpdateByID aplica patch con semántica $set (campos no presentes quedan igual).
	UpdateByID(ctx context.Context, id string, patch entity.Document) (entity.Document, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}
