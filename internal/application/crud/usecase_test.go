package crud_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/asseta-api/internal/application/activity"
	"github.com/jhoicas/asseta-api/internal/application/crud"
	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/infrastructure/memory"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

type notice struct{ Title, Message, Kind string }

type fakeNotifier struct {
	mu  sync.Mutex
	got []notice
}

func (f *fakeNotifier) Notify(_ context.Context, title, message, kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, notice{title, message, kind})
}

type recorded struct{ Actor, Action, Entity string }

type fakeRecorder struct {
	mu  sync.Mutex
	got []recorded
}

func (f *fakeRecorder) Record(ctx context.Context, action, entityName, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, recorded{activity.ActorFrom(ctx), action, entityName})
}

type fakeArchiver struct {
	err      error
	archived []entity.Document
}

func (f *fakeArchiver) Archive(_ context.Context, _ string, snapshot entity.Document) error {
	if f.err != nil {
		return f.err
	}
	f.archived = append(f.archived, snapshot.Clone())
	return nil
}

type fixture struct {
	uc       *crud.UseCase
	notifier *fakeNotifier
	recorder *fakeRecorder
	archiver *fakeArchiver
}

var fixedNow = time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

func newFixture(schema entity.Schema) fixture {
	f := fixture{notifier: &fakeNotifier{}, recorder: &fakeRecorder{}, archiver: &fakeArchiver{}}
	f.uc = crud.NewUseCase(schema, memory.NewStore(), f.archiver, f.notifier, f.recorder, logger.Nop(),
		crud.WithHashCost(bcrypt.MinCost),
		crud.WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func TestCreate_NotificaYRegistra(t *testing.T) {
	f := newFixture(entity.VendorSchema())
	ctx := activity.WithActor(context.Background(), "maria")

	doc, err := f.uc.Create(ctx, map[string]any{"name": "Acme", "email": "a@acme.io"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID())
	assert.Equal(t, fixedNow, doc[entity.FieldCreatedAt])

	assert.Equal(t, []notice{{"Vendor Added", "Vendor created successfully.", entity.NotificationSuccess}}, f.notifier.got)
	assert.Equal(t, []recorded{{"maria", entity.ActionCreate, entity.CollectionVendors}}, f.recorder.got)
}

func TestCreate_ValidacionSinEfectos(t *testing.T) {
	f := newFixture(entity.VendorSchema())

	_, err := f.uc.Create(context.Background(), map[string]any{"email": "x@y.z"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, f.notifier.got)
	assert.Empty(t, f.recorder.got)
}

func TestCreate_UsuarioHasheaYOcultaPassword(t *testing.T) {
	f := newFixture(entity.UserSchema())
	ctx := context.Background()

	doc, err := f.uc.Create(ctx, map[string]any{"username": "ana", "password": "s3cret"})
	require.NoError(t, err)
	assert.NotContains(t, doc, "password")
	assert.Equal(t, entity.RoleUser, doc["role"])

	list, err := f.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "password")

	_, err = f.uc.Create(ctx, map[string]any{"username": "ana", "password": "otra"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestUpdate(t *testing.T) {
	f := newFixture(entity.ProductSchema())
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, map[string]any{"name": "Widget", "quantity": 1})
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, doc.ID(), map[string]any{"quantity": "5"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated["quantity"])
	assert.Equal(t, "Widget", updated["name"])
	assert.Equal(t, "Product Updated", f.notifier.got[len(f.notifier.got)-1].Title)

	_, err = f.uc.Update(ctx, "missing", map[string]any{"quantity": 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_ArchivaAntesDeBorrar(t *testing.T) {
	f := newFixture(entity.AssetSchema())
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, map[string]any{"name": "Laptop"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, doc.ID()))
	require.Len(t, f.archiver.archived, 1)
	assert.Equal(t, "Laptop", f.archiver.archived[0]["name"])
	assert.Equal(t, doc.ID(), f.archiver.archived[0].ID())

	_, err = f.uc.Get(ctx, doc.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Asset Deleted", f.notifier.got[len(f.notifier.got)-1].Title)

	assert.ErrorIs(t, f.uc.Delete(ctx, doc.ID()), domain.ErrNotFound)
}

func TestDelete_FalloDeArchivoNoBorra(t *testing.T) {
	f := newFixture(entity.AssetSchema())
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, map[string]any{"name": "Laptop"})
	require.NoError(t, err)
	notified := len(f.notifier.got)

	f.archiver.err = errors.New("papelera caída")
	err = f.uc.Delete(ctx, doc.ID())
	require.Error(t, err)

	still, err := f.uc.Get(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, "Laptop", still["name"])
	assert.Len(t, f.notifier.got, notified)
}

func TestReinstate_RespetaUnicidad(t *testing.T) {
	f := newFixture(entity.UserSchema())
	ctx := context.Background()
	_, err := f.uc.Create(ctx, map[string]any{"username": "ana", "password": "x"})
	require.NoError(t, err)

	_, err = f.uc.Reinstate(ctx, entity.Document{"_id": "old", "username": "ana", "password": "$2a$hash"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	restored, err := f.uc.Reinstate(ctx, entity.Document{"_id": "old", "username": "luis", "password": "$2a$hash"})
	require.NoError(t, err)
	assert.NotEqual(t, "old", restored.ID())
	assert.NotContains(t, restored, "password")
}
