package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jhoicas/asseta-api/internal/application/app"
	"github.com/jhoicas/asseta-api/internal/application/auth"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/asseta-api/internal/interfaces/http"
)

// failingStore devuelve error en Insert para las colecciones indicadas.
type failingStore struct {
	*memory.Store
	fail map[string]bool
}

func (s failingStore) Collection(name string) repository.DocumentCollection {
	c := s.Store.Collection(name)
	if s.fail[name] {
		return failingInsert{c}
	}
	return c
}

type failingInsert struct {
	repository.DocumentCollection
}

func (failingInsert) Insert(context.Context, entity.Document) (entity.Document, error) {
	return nil, errors.New("almacén no disponible")
}

type serverOpts struct {
	store        repository.DocumentStore
	authRequired bool
	jwtSecret    string
}

func newServer(t *testing.T, o serverOpts) (*fiber.App, *app.Container) {
	t.Helper()
	if o.store == nil {
		o.store = memory.NewStore()
	}
	c := app.New(o.store, app.Options{
		HashCost: bcrypt.MinCost,
		JWT:      auth.JWTConfig{Secret: o.jwtSecret, ExpMinutes: 60, Issuer: "asseta-test"},
	})
	f := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(f, apphttp.RouterDeps{
		CRUD:            c.CRUD,
		SupportUC:       c.Support,
		NotificationSvc: c.Notifications,
		RecycleBinSvc:   c.RecycleBin,
		ActivitySvc:     c.Activity,
		AuthUC:          c.Auth,
		Store:           o.store,
		JWTSecret:       o.jwtSecret,
		AuthRequired:    o.authRequired,
		ServiceName:     "asseta-test",
		AuthLimiter:     apphttp.NewIPRateLimiter(rate.Inf, 1),
	})
	return f, c
}

func call(t *testing.T, f *fiber.App, method, path string, body any, header ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := f.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeObject(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

func decodeList(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(raw, &l), string(raw))
	return l
}

func notificationTitles(t *testing.T, f *fiber.App) []string {
	t.Helper()
	resp, body := call(t, f, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var titles []string
	for _, n := range decodeList(t, body) {
		titles = append(titles, n["title"].(string))
	}
	return titles
}

func TestSupport_FlujoDeEjemplo(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	resp, body := call(t, f, http.MethodPost, "/api/support", map[string]any{
		"name": "A", "email": "a@x.com", "subject": "Broken login", "message": "Cannot log in",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	ticket := decodeObject(t, body)
	assert.Equal(t, "open", ticket["status"])
	assert.Equal(t, "General", ticket["category"])
	assert.Equal(t, "Medium", ticket["priority"])
	id := ticket["_id"].(string)

	resp, body = call(t, f, http.MethodPut, "/api/support/"+id, map[string]any{"status": "in-progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "in-progress", decodeObject(t, body)["status"])
	assert.Contains(t, notificationTitles(t, f), "Ticket Updated")

	resp, body = call(t, f, http.MethodPut, "/api/support/"+id, map[string]any{"adminReply": "Please retry", "status": "in-progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decodeObject(t, body)
	assert.Equal(t, "Please retry", updated["adminReply"])
	assert.Equal(t, "in-progress", updated["status"])
	assert.Contains(t, notificationTitles(t, f), "Support Reply")
}

func TestSupport_ResolverDosVecesEsIdempotente(t *testing.T) {
	f, _ := newServer(t, serverOpts{})
	_, body := call(t, f, http.MethodPost, "/api/support", map[string]any{
		"name": "B", "email": "b@x.com", "subject": "Printer", "message": "Jammed",
	})
	id := decodeObject(t, body)["_id"].(string)

	for i := 0; i < 2; i++ {
		resp, body := call(t, f, http.MethodPut, "/api/support/"+id, map[string]any{"status": "resolved"})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, "resolved", decodeObject(t, body)["status"])
	}
}

func TestSupport_ValidacionYEstadoInvalido(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	resp, body := call(t, f, http.MethodPost, "/api/support", map[string]any{"name": "A"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeObject(t, body)
	assert.Equal(t, "VALIDATION", out["code"])
	fields := out["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "subject")

	_, body = call(t, f, http.MethodPost, "/api/support", map[string]any{
		"name": "A", "email": "a@x.com", "subject": "S", "message": "M",
	})
	id := decodeObject(t, body)["_id"].(string)
	resp, _ = call(t, f, http.MethodPut, "/api/support/"+id, map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, f, http.MethodPut, "/api/support/no-existe", map[string]any{"status": "resolved"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCRUD_CrearNotificaYObtener(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	resp, body := call(t, f, http.MethodPost, "/api/vendors", map[string]any{"name": "Acme", "email": "sales@acme.test"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	vendor := decodeObject(t, body)
	assert.Equal(t, "Acme", vendor["name"])
	assert.Equal(t, "sales@acme.test", vendor["email"])
	id := vendor["_id"].(string)

	resp, body = call(t, f, http.MethodGet, "/api/vendors/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme", decodeObject(t, body)["name"])

	resp, body = call(t, f, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notes := decodeList(t, body)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Vendor Added", notes[0]["title"])
	assert.Equal(t, "success", notes[0]["type"])
	assert.Equal(t, false, notes[0]["isRead"])
}

func TestCRUD_ErroresDeValidacionYNoEncontrado(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	resp, body := call(t, f, http.MethodPost, "/api/assets", map[string]any{"type": "laptop"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeObject(t, body)["fields"], "name")

	resp, _ = call(t, f, http.MethodGet, "/api/assets/desconocido", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, f, http.MethodPut, "/api/assets/desconocido", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, f, http.MethodDelete, "/api/assets/desconocido", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCRUD_BorrarPapeleraRestaurar(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	_, body := call(t, f, http.MethodPost, "/api/products", map[string]any{"name": "Widget", "quantity": 3, "vendor": "Acme"})
	product := decodeObject(t, body)
	id := product["_id"].(string)

	resp, body := call(t, f, http.MethodDelete, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, true, decodeObject(t, body)["success"])

	resp, _ = call(t, f, http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, f, http.MethodGet, "/api/recycle-bin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decodeList(t, body)
	require.Len(t, entries, 1)
	assert.Equal(t, "products", entries[0]["entityType"])
	data := entries[0]["data"].(map[string]any)
	assert.Equal(t, "Widget", data["name"])
	assert.Equal(t, id, data["_id"])
	entryID := entries[0]["_id"].(string)

	resp, body = call(t, f, http.MethodPost, "/api/recycle-bin/"+entryID+"/restore", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	restored := decodeObject(t, body)["data"].(map[string]any)
	assert.Equal(t, "Widget", restored["name"])
	assert.Equal(t, "Acme", restored["vendor"])
	assert.NotEqual(t, id, restored["_id"])

	resp, _ = call(t, f, http.MethodGet, "/api/recycle-bin/"+entryID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, f, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, body), 1)
	assert.Contains(t, notificationTitles(t, f), "Product Restored")
}

func TestRecycleBin_PurgarYVaciar(t *testing.T) {
	f, _ := newServer(t, serverOpts{})
	for _, name := range []string{"a", "b"} {
		_, body := call(t, f, http.MethodPost, "/api/assets", map[string]any{"name": name})
		id := decodeObject(t, body)["_id"].(string)
		resp, _ := call(t, f, http.MethodDelete, "/api/assets/"+id, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	_, body := call(t, f, http.MethodGet, "/api/recyclebin", nil)
	entries := decodeList(t, body)
	require.Len(t, entries, 2)

	resp, _ := call(t, f, http.MethodDelete, "/api/recycle-bin/"+entries[0]["_id"].(string), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, f, http.MethodDelete, "/api/recycle-bin/"+entries[0]["_id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, f, http.MethodDelete, "/api/recycle-bin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decodeObject(t, body)["deleted"])
}

func TestUsers_PasswordNuncaSeExpone(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	resp, body := call(t, f, http.MethodPost, "/api/users", map[string]any{"username": "ana", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decodeObject(t, body)
	assert.NotContains(t, created, "password")
	assert.Equal(t, "user", created["role"])

	resp, _ = call(t, f, http.MethodPost, "/api/users", map[string]any{"username": "ana", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = call(t, f, http.MethodGet, "/api/users", nil)
	for _, u := range decodeList(t, body) {
		assert.NotContains(t, u, "password")
	}

	resp, _ = call(t, f, http.MethodDelete, "/api/users/"+created["_id"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = call(t, f, http.MethodGet, "/api/recycle-bin", nil)
	entries := decodeList(t, body)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0]["data"], "password")
}

func TestAuth_RegistroYLogin(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	resp, body := call(t, f, http.MethodPost, "/api/auth/register", map[string]any{"username": "bob", "email": "bob@x.com", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Registration successful!", decodeObject(t, body)["message"])

	resp, body = call(t, f, http.MethodPost, "/api/auth/register", map[string]any{"username": "bob", "password": "otro"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeObject(t, body)["code"])

	resp, body = call(t, f, http.MethodPost, "/api/auth/login", map[string]any{"username": "bob", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decodeObject(t, body)
	user := out["user"].(map[string]any)
	assert.Equal(t, "bob", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, out, "token")

	resp, body = call(t, f, http.MethodPost, "/api/login", map[string]any{"email": "bob@x.com", "password": "pw"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, f, http.MethodPost, "/api/auth/login", map[string]any{"username": "bob", "password": "mal"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeObject(t, body)["code"])

	resp, body = call(t, f, http.MethodPost, "/api/auth/login", map[string]any{"username": "nadie", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", decodeObject(t, body)["code"])
}

func TestNotificacionFallidaNoCambiaLaRespuesta(t *testing.T) {
	store := failingStore{Store: memory.NewStore(), fail: map[string]bool{
		entity.CollectionNotifications: true,
		entity.CollectionActivityLogs:  true,
	}}
	f, _ := newServer(t, serverOpts{store: store})

	resp, body := call(t, f, http.MethodPost, "/api/vendors", map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decodeObject(t, body)["_id"].(string)

	resp, _ = call(t, f, http.MethodDelete, "/api/vendors/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = call(t, f, http.MethodGet, "/api/notifications", nil)
	assert.Empty(t, decodeList(t, body))
}

func TestArchivoFallidoAbortaElBorrado(t *testing.T) {
	store := failingStore{Store: memory.NewStore(), fail: map[string]bool{entity.CollectionRecycleBin: true}}
	f, _ := newServer(t, serverOpts{store: store})

	_, body := call(t, f, http.MethodPost, "/api/assets", map[string]any{"name": "Laptop"})
	id := decodeObject(t, body)["_id"].(string)

	resp, body := call(t, f, http.MethodDelete, "/api/assets/"+id, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", decodeObject(t, body)["code"])

	resp, _ = call(t, f, http.MethodGet, "/api/assets/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestActividadRegistraActorDelToken(t *testing.T) {
	const secret = "router-secret"
	f, _ := newServer(t, serverOpts{jwtSecret: secret})

	_, _ = call(t, f, http.MethodPost, "/api/auth/register", map[string]any{"username": "carla", "password": "pw"})
	_, body := call(t, f, http.MethodPost, "/api/auth/login", map[string]any{"username": "carla", "password": "pw"})
	token := decodeObject(t, body)["token"].(string)
	require.NotEmpty(t, token)

	resp, _ := call(t, f, http.MethodPost, "/api/assets", map[string]any{"name": "Monitor"}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = call(t, f, http.MethodPost, "/api/assets", map[string]any{"name": "Mouse"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = call(t, f, http.MethodGet, "/api/activity", nil)
	logs := decodeList(t, body)
	require.GreaterOrEqual(t, len(logs), 2)
	assert.Equal(t, "System", logs[0]["user"])
	assert.Equal(t, "CREATE", logs[0]["action"])
	assert.Equal(t, "carla", logs[1]["user"])
}

func TestAuthRequired_ExigeTokenYRolAdmin(t *testing.T) {
	const secret = "router-secret"
	store := memory.NewStore()
	f, c := newServer(t, serverOpts{store: store, jwtSecret: secret, authRequired: true})

	resp, _ := call(t, f, http.MethodGet, "/api/vendors", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, _ = call(t, f, http.MethodPost, "/api/auth/register", map[string]any{"username": "dana", "password": "pw"})
	_, body := call(t, f, http.MethodPost, "/api/auth/login", map[string]any{"username": "dana", "password": "pw"})
	bearer := "Bearer " + decodeObject(t, body)["token"].(string)

	resp, _ = call(t, f, http.MethodGet, "/api/vendors", nil, "Authorization", bearer)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, f, http.MethodGet, "/api/users", nil, "Authorization", bearer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, err := c.CRUD[entity.CollectionUsers].Create(context.Background(), map[string]any{"username": "root", "password": "pw", "role": "admin"})
	require.NoError(t, err)
	_, body = call(t, f, http.MethodPost, "/api/auth/login", map[string]any{"username": "root", "password": "pw"})
	admin := "Bearer " + decodeObject(t, body)["token"].(string)
	resp, _ = call(t, f, http.MethodGet, "/api/users", nil, "Authorization", admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthYMetrics(t *testing.T) {
	f, _ := newServer(t, serverOpts{})

	resp, body := call(t, f, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeObject(t, body)["status"])
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	_, _ = call(t, f, http.MethodGet, "/api/vendors", nil)
	resp, body = call(t, f, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), `path="/api/vendors`)
}

func TestRutaInexistente(t *testing.T) {
	f, _ := newServer(t, serverOpts{})
	resp, body := call(t, f, http.MethodGet, "/api/desconocido/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeObject(t, body)["code"])
}

func TestTestNotification(t *testing.T) {
	f, _ := newServer(t, serverOpts{})
	resp, body := call(t, f, http.MethodPost, "/api/test-notification", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	n := decodeObject(t, body)
	assert.Equal(t, "Test Notification", n["title"])
	id := n["_id"].(string)

	resp, body = call(t, f, http.MethodPut, "/api/notifications/"+id+"/read", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeObject(t, body)["isRead"])

	resp, _ = call(t, f, http.MethodDelete, "/api/notifications/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, f, http.MethodPut, "/api/notifications/"+id+"/read", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
