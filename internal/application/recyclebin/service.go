package recyclebin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
	"github.com/jhoicas/asseta-api/pkg/obs"
)

// Origin colección de la que provienen las entradas archivadas.
type Origin interface {
	Schema() entity.Schema
	// Reinstate vuelve a insertar un snapshot (con id nuevo) aplicando las reglas de la colección.
	Reinstate(ctx context.Context, snapshot entity.Document) (entity.Document, error)
}

// Service papelera: archivo previo al borrado, restauración y purga.
type Service struct {
	coll     repository.DocumentCollection
	origins  map[string]Origin
	notifier ports.Notifier
	activity ports.ActivityRecorder
	log      *logger.Logger
	now      func() time.Time
}

var _ ports.Archiver = (*Service)(nil)

// NewService construye la papelera. Las colecciones de origen se agregan con Register.
func NewService(store repository.DocumentStore, notifier ports.Notifier, recorder ports.ActivityRecorder, log *logger.Logger) *Service {
	return &Service{
		coll:     store.Collection(entity.CollectionRecycleBin),
		origins:  map[string]Origin{},
		notifier: notifier,
		activity: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Register habilita restaurar entradas de la colección de o.
// Se llama durante el arranque, antes de atender peticiones.
func (s *Service) Register(o Origin) {
	s.origins[o.Schema().Collection] = o
}

// origin resuelve entityType; acepta también el nombre singular ("vendor") de datos antiguos.
func (s *Service) origin(entityType string) (Origin, bool) {
	if o, ok := s.origins[entityType]; ok {
		return o, true
	}
	o, ok := s.origins[strings.ToLower(entityType)+"s"]
	return o, ok
}

// Archive guarda una copia completa de snapshot. Debe completarse antes del borrado.
func (s *Service) Archive(ctx context.Context, entityType string, snapshot entity.Document) error {
	ctx, span := obs.Start(ctx, "recyclebin.archive")
	defer span.End()

	entry := entity.RecycleBinEntry{EntityType: entityType, Data: snapshot, DeletedAt: s.now().UTC()}
	if _, err := s.coll.Insert(ctx, entry.Document()); err != nil {
		return fmt.Errorf("archive %s: %w", entityType, err)
	}
	return nil
}

// List devuelve las entradas por fecha de borrado descendente, sin campos secretos.
func (s *Service) List(ctx context.Context) ([]entity.Document, error) {
	ctx, span := obs.Start(ctx, "recyclebin.list")
	defer span.End()

	docs, err := s.coll.Find(ctx, nil, &repository.SortOrder{Field: "deletedAt", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list recycle bin: %w", err)
	}
	for _, d := range docs {
		s.project(d)
	}
	return docs, nil
}

// Get devuelve una entrada o domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (entity.Document, error) {
	ctx, span := obs.Start(ctx, "recyclebin.get")
	defer span.End()

	doc, err := s.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recycle bin entry: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	s.project(doc)
	return doc, nil
}

func (s *Service) project(doc entity.Document) {
	et, _ := doc["entityType"].(string)
	data, ok := doc["data"].(entity.Document)
	if !ok {
		return
	}
	if o, found := s.origin(et); found {
		doc["data"] = o.Schema().Project(data)
	}
}

// Restore reinserta el snapshot en su colección (con id nuevo) y elimina la entrada.
// Si la reinserción falla la entrada se conserva.
func (s *Service) Restore(ctx context.Context, id string) (entity.Document, error) {
	ctx, span := obs.Start(ctx, "recyclebin.restore")
	defer span.End()

	doc, err := s.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recycle bin entry: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	var entry entity.RecycleBinEntry
	if err := entity.Decode(doc, &entry); err != nil {
		return nil, fmt.Errorf("decode recycle bin entry: %w", err)
	}
	o, ok := s.origin(entry.EntityType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entry.EntityType)
	}
	restored, err := o.Reinstate(ctx, entry.Data)
	if err != nil {
		return nil, err
	}
	if _, err := s.coll.DeleteByID(ctx, id); err != nil {
		// El documento ya volvió a su colección; la entrada duplicada es aceptable.
		s.log.Warn().Err(err).Str("id", id).Msg("entrada restaurada no eliminada de la papelera")
	}

	name := o.Schema().DisplayName
	s.notifier.Notify(ctx, name+" Restored", name+" restored from recycle bin.", entity.NotificationSuccess)
	s.activity.Record(ctx, entity.ActionRestore, o.Schema().Collection, "Item restored from recycle bin")
	return restored, nil
}

// Purge elimina la entrada de forma irreversible.
func (s *Service) Purge(ctx context.Context, id string) error {
	ctx, span := obs.Start(ctx, "recyclebin.purge")
	defer span.End()

	ok, err := s.coll.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("purge recycle bin entry: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.activity.Record(ctx, entity.ActionPurge, entity.CollectionRecycleBin, "Item permanently deleted")
	return nil
}

// Empty vacía la papelera y devuelve cuántas entradas eliminó.
func (s *Service) Empty(ctx context.Context) (int64, error) {
	ctx, span := obs.Start(ctx, "recyclebin.empty")
	defer span.End()

	n, err := s.coll.DeleteMany(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("empty recycle bin: %w", err)
	}
	s.activity.Record(ctx, entity.ActionPurge, entity.CollectionRecycleBin, fmt.Sprintf("Recycle bin emptied (%d items)", n))
	return n, nil
}

// PurgeOlderThan elimina las entradas borradas antes de cutoff (job de retención).
func (s *Service) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := obs.Start(ctx, "recyclebin.purge_older_than")
	defer span.End()

	n, err := s.coll.DeleteMany(ctx, repository.Filter{"deletedAt": repository.LessThan{Value: cutoff.UTC()}})
	if err != nil {
		return 0, fmt.Errorf("purge recycle bin: %w", err)
	}
	return n, nil
}
