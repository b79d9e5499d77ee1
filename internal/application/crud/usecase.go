package crud

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
	"github.com/jhoicas/asseta-api/pkg/obs"
)

// Option ajusta un UseCase al construirlo.
type Option func(*UseCase)

// WithHashCost cambia el costo bcrypt (las pruebas usan bcrypt.MinCost).
func WithHashCost(cost int) Option {
	return func(uc *UseCase) { uc.hashCost = cost }
}

// WithClock fija el reloj usado para createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// UseCase CRUD genérico para una colección descrita por un entity.Schema.
// Los efectos secundarios (notificación, actividad) corren solo después de
// que la escritura principal tuvo éxito.
type UseCase struct {
	schema   entity.Schema
	coll     repository.DocumentCollection
	archiver ports.Archiver
	notifier ports.Notifier
	activity ports.ActivityRecorder
	log      *logger.Logger
	now      func() time.Time
	hashCost int
}

// NewUseCase construye el caso de uso para schema.
func NewUseCase(
	schema entity.Schema,
	store repository.DocumentStore,
	archiver ports.Archiver,
	notifier ports.Notifier,
	recorder ports.ActivityRecorder,
	log *logger.Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		schema:   schema,
		coll:     store.Collection(schema.Collection),
		archiver: archiver,
		notifier: notifier,
		activity: recorder,
		log:      log,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Schema devuelve el esquema de la colección.
func (uc *UseCase) Schema() entity.Schema { return uc.schema }

func (uc *UseCase) span(ctx context.Context, op string) (context.Context, func()) {
	ctx, span := obs.Start(ctx, "crud."+uc.schema.Collection+"."+op)
	return ctx, func() { span.End() }
}

// List devuelve todos los documentos, sin filtro ni paginación.
func (uc *UseCase) List(ctx context.Context) ([]entity.Document, error) {
	ctx, end := uc.span(ctx, "list")
	defer end()

	docs, err := uc.coll.Find(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", uc.schema.Collection, err)
	}
	for i, d := range docs {
		docs[i] = uc.schema.Project(d)
	}
	return docs, nil
}

// Get devuelve un documento o domain.ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, id string) (entity.Document, error) {
	ctx, end := uc.span(ctx, "get")
	defer end()

	doc, err := uc.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", uc.schema.Collection, err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return uc.schema.Project(doc), nil
}

// Create valida con el esquema, persiste y luego notifica.
func (uc *UseCase) Create(ctx context.Context, input map[string]any) (entity.Document, error) {
	ctx, end := uc.span(ctx, "create")
	defer end()

	doc, err := uc.schema.Build(input, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := HashSecrets(uc.schema, doc, uc.hashCost); err != nil {
		return nil, err
	}
	if err := CheckUnique(ctx, uc.coll, uc.schema, doc, ""); err != nil {
		return nil, err
	}
	stored, err := uc.coll.Insert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", uc.schema.Collection, err)
	}

	name := uc.schema.DisplayName
	uc.notifier.Notify(ctx, name+" Added", name+" created successfully.", entity.NotificationSuccess)
	uc.activity.Record(ctx, entity.ActionCreate, uc.schema.Collection, "Item created")
	return uc.schema.Project(stored), nil
}

// Update sobrescribe solo los campos enviados y sella updatedAt.
func (uc *UseCase) Update(ctx context.Context, id string, input map[string]any) (entity.Document, error) {
	ctx, end := uc.span(ctx, "update")
	defer end()

	patch, err := uc.schema.Patch(input, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := HashSecrets(uc.schema, patch, uc.hashCost); err != nil {
		return nil, err
	}
	if err := CheckUnique(ctx, uc.coll, uc.schema, patch, id); err != nil {
		return nil, err
	}
	updated, err := uc.coll.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", uc.schema.Collection, err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	name := uc.schema.DisplayName
	uc.notifier.Notify(ctx, name+" Updated", name+" updated successfully.", entity.NotificationInfo)
	uc.activity.Record(ctx, entity.ActionUpdate, uc.schema.Collection, "Item updated")
	return uc.schema.Project(updated), nil
}

// Delete archiva el documento en la papelera y después lo elimina.
// Si el archivo falla no se borra nada.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	ctx, end := uc.span(ctx, "delete")
	defer end()

	doc, err := uc.coll.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", uc.schema.Collection, err)
	}
	if doc == nil {
		return domain.ErrNotFound
	}
	if err := uc.archiver.Archive(ctx, uc.schema.Collection, doc); err != nil {
		return err
	}
	deleted, err := uc.coll.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", uc.schema.Collection, err)
	}
	if !deleted {
		// Otro borrado concurrente ganó; queda una copia extra en la papelera.
		return domain.ErrNotFound
	}

	name := uc.schema.DisplayName
	uc.notifier.Notify(ctx, name+" Deleted", name+" moved to recycle bin.", entity.NotificationWarning)
	uc.activity.Record(ctx, entity.ActionDelete, uc.schema.Collection, "Item deleted and moved to recycle bin")
	return nil
}

// Reinstate reinserta un snapshot de la papelera con id nuevo. Los secretos ya
// vienen hasheados y no se vuelven a procesar.
func (uc *UseCase) Reinstate(ctx context.Context, snapshot entity.Document) (entity.Document, error) {
	ctx, end := uc.span(ctx, "reinstate")
	defer end()

	doc := snapshot.Without(entity.IDField)
	if err := CheckUnique(ctx, uc.coll, uc.schema, doc, ""); err != nil {
		return nil, err
	}
	stored, err := uc.coll.Insert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("reinstate %s: %w", uc.schema.Collection, err)
	}
	return uc.schema.Project(stored), nil
}
