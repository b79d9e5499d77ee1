package console_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asseta-api/internal/interfaces/console"
	"github.com/jhoicas/asseta-api/pkg/apiclient"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// fakeAPI servidor httptest que imita la API REST y registra lo recibido.
type fakeAPI struct {
	mu       sync.Mutex
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
	requests []string
	bodies   map[string]string
	auth     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: map[string]func(http.ResponseWriter, *http.Request){}, bodies: map[string]string{}}
}

func (f *fakeAPI) handle(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, key)
	f.bodies[key] = string(b)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	h, ok := f.routes[key]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"ruta no encontrada"}`))
		return
	}
	h(w, r)
}

func (f *fakeAPI) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == key {
			return true
		}
	}
	return false
}

func (f *fakeAPI) body(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func (f *fakeAPI) sawAuth(header string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.auth {
		if a == header {
			return true
		}
	}
	return false
}

func newConsole(t *testing.T, api *fakeAPI) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	h, err := console.New(apiclient.New(srv.URL, time.Second), logger.Nop())
	require.NoError(t, err)
	app := fiber.New()
	h.Register(app.Group(console.Prefix))
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: console.CookieName, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

const ticketsJSON = `[
 {"_id":"t1","name":"Ana","email":"ana@example.com","subject":"<script>alert(1)</script>","message":"a=b","priority":"High","status":"open","adminReply":""},
 {"_id":"t2","name":"Luis","email":"luis@example.com","subject":"Printer","message":"jam","priority":"Low","status":"resolved","adminReply":"Replaced the drum unit and cleaned the rollers, please try printing again now"},
 {"_id":"t3","name":"Eva","email":"eva@example.com","subject":"VPN","message":"down","priority":"High","status":"in-progress","adminReply":"Looking"}
]`

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;&#39;&#x2F;&#96;&#61;", console.EscapeHTML("&<>\"'/`="))
	assert.Equal(t, "", console.EscapeHTML(""))
	assert.Equal(t, "plain text", console.EscapeHTML("plain text"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "-", console.Preview("", 60))
	assert.Equal(t, "short", console.Preview("short", 60))
	assert.Equal(t, "abc...", console.Preview("abcdef", 3))
}

func TestSupportPage_EscapaYFiltra(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodGet, "/api/support", http.StatusOK, ticketsJSON)
	app := newConsole(t, api)

	status, body := get(t, app, "/console/support")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;&#x2F;script&gt;")
	assert.NotContains(t, body, "<script>alert(1)")
	assert.Contains(t, body, "a&#61;b")
	assert.Contains(t, body, "Replaced the drum unit and cleaned the rollers, please try p...")
	assert.Contains(t, body, "Printer")

	status, body = get(t, app, "/console/support?priority=High&search=vpn")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "VPN")
	assert.NotContains(t, body, "Printer")
	assert.NotContains(t, body, "alert(1)")
	// t3 ya está in-progress: solo ofrece Resolve.
	assert.NotContains(t, body, ">In-Progress</button>")
	assert.Contains(t, body, ">Resolve</button>")
}

func TestSupportPage_VacioYError(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodGet, "/api/support", http.StatusOK, `[]`)
	app := newConsole(t, api)

	_, body := get(t, app, "/console/support")
	assert.Contains(t, body, "No support tickets found")
	assert.NotContains(t, body, "Failed to load support tickets")

	api.handle(http.MethodGet, "/api/support", http.StatusInternalServerError, `{"code":"INTERNAL","message":"boom"}`)
	status, body := get(t, app, "/console/support")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Failed to load support tickets")
	assert.NotContains(t, body, "No support tickets found")
}

func TestSupportReply(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodPut, "/api/support/t1", http.StatusOK, `{"_id":"t1","status":"in-progress","adminReply":"hello"}`)
	app := newConsole(t, api)

	resp := postForm(t, app, "/console/support/t1/reply", url.Values{"reply": {"  hello "}, "f_priority": {"High"}}, "tok")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/console/support?priority=High&msg="), loc)

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(api.body("PUT /api/support/t1")), &sent))
	assert.Equal(t, map[string]string{"adminReply": "hello", "status": "in-progress"}, sent)
	assert.True(t, api.sawAuth("Bearer tok"))
}

func TestSupportReply_VacioNoLlamaALaAPI(t *testing.T) {
	api := newFakeAPI()
	app := newConsole(t, api)

	resp := postForm(t, app, "/console/support/t1/reply", url.Values{"reply": {"   "}}, "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "err=")
	assert.False(t, api.called("PUT /api/support/t1"))
}

func TestSupportStatus_FalloQuedaComoToast(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodPut, "/api/support/t9", http.StatusNotFound, `{"code":"NOT_FOUND","message":"recurso no encontrado"}`)
	app := newConsole(t, api)

	resp := postForm(t, app, "/console/support/t9/status", url.Values{"status": {"resolved"}}, "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.Contains(t, loc, "err=Failed+to+mark+resolved")
}

func TestUnauthorizedRedirigeALogin(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodGet, "/api/notifications", http.StatusUnauthorized, `{"code":"MISSING_TOKEN","message":"token requerido"}`)
	app := newConsole(t, api)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/console/notifications", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/console/login?next="))
}

func TestLogin_GuardaCookie(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodPost, "/api/auth/login", http.StatusOK, `{"message":"Login successful","user":{"username":"ana"},"token":"jwt-1"}`)
	app := newConsole(t, api)

	resp := postForm(t, app, "/console/login", url.Values{"username": {"ana"}, "password": {"pw"}, "next": {"/console/recycle-bin"}}, "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/console/recycle-bin", resp.Header.Get("Location"))
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == console.CookieName {
			found = true
			assert.Equal(t, "jwt-1", c.Value)
		}
	}
	assert.True(t, found)
}

func TestRecycleBinPage(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodGet, "/api/recycle-bin", http.StatusOK, `[
	 {"_id":"e1","entityType":"products","data":{"name":"Widget"},"deletedAt":"2026-03-01T10:00:00Z"},
	 {"_id":"e2","entityType":"assets","data":{}}
	]`)
	api.handle(http.MethodPost, "/api/recycle-bin/e1/restore", http.StatusOK, `{"success":true,"message":"Item restored","data":{"_id":"p1"}}`)
	app := newConsole(t, api)

	_, body := get(t, app, "/console/recycle-bin")
	assert.Contains(t, body, "Widget")
	assert.Contains(t, body, "Unnamed")
	assert.Contains(t, body, "Entity: products")
	assert.Contains(t, body, "/console/recycle-bin/e1/restore")

	resp := postForm(t, app, "/console/recycle-bin/e1/restore", url.Values{}, "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/console/recycle-bin?msg=Item+restored", resp.Header.Get("Location"))

	api.handle(http.MethodGet, "/api/recycle-bin", http.StatusOK, `[]`)
	_, body = get(t, app, "/console/recycle-bin")
	assert.Contains(t, body, "No deleted items found.")
}

func TestNotificationsPage(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodGet, "/api/notifications", http.StatusOK, `[]`)
	app := newConsole(t, api)

	_, body := get(t, app, "/console/notifications")
	assert.Contains(t, body, "No notifications yet.")

	api.handle(http.MethodGet, "/api/notifications", http.StatusOK, `[{"_id":"n1","title":"Vendor Added","message":"Acme was added","isRead":false}]`)
	_, body = get(t, app, "/console/notifications")
	assert.Contains(t, body, "Vendor Added")
	assert.Contains(t, body, "Mark read")
}

func TestEntityPage(t *testing.T) {
	api := newFakeAPI()
	api.handle(http.MethodGet, "/api/vendors", http.StatusOK, `[{"_id":"v1","name":"Acme & Co","email":"acme@example.com"}]`)
	api.handle(http.MethodDelete, "/api/vendors/v1", http.StatusOK, `{"success":true,"message":"Vendor moved to recycle bin"}`)
	app := newConsole(t, api)

	status, body := get(t, app, "/console/vendors")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Acme &amp; Co")
	assert.Contains(t, body, "/console/vendors/v1/delete")

	resp := postForm(t, app, "/console/vendors/v1/delete", url.Values{}, "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, api.called("DELETE /api/vendors/v1"))

	status, _ = get(t, app, "/console/unknown")
	assert.Equal(t, http.StatusNotFound, status)
}
