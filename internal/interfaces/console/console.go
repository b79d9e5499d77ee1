// Package console consola web renderizada en servidor. Cada página consulta la
// API REST mediante pkg/apiclient y cada acción redirige para volver a consultar.
package console

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/pkg/apiclient"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

//go:embed templates
var templatesFS embed.FS

// CookieName cookie con el JWT de la consola.
const CookieName = "asseta_token"

// Prefix ruta base de la consola.
const Prefix = "/console"

var pages = []string{"support", "recycle_bin", "notifications", "entities", "activity", "login"}

// entityColumns columnas visibles por colección.
var entityColumns = map[string][]string{
	"vendors":  {"name", "email", "phone", "company"},
	"products": {"name", "category", "price", "vendor", "quantity"},
	"assets":   {"name", "type", "assignedTo", "status", "purchaseDate"},
	"users":    {"username", "email", "role"},
}

// Handler consola montada en /console.
type Handler struct {
	client  *apiclient.Client
	log     *logger.Logger
	pages   map[string]*template.Template
	timeout time.Duration
}

// New parsea las plantillas embebidas.
func New(client *apiclient.Client, log *logger.Logger) (*Handler, error) {
	layout, err := templatesFS.ReadFile("templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	h := &Handler{client: client, log: log, pages: map[string]*template.Template{}, timeout: 10 * time.Second}
	for _, name := range pages {
		content, err := templatesFS.ReadFile("templates/" + name + ".html")
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		t, err := template.New("layout").Funcs(funcs).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := t.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		h.pages[name] = t
	}
	return h, nil
}

// Register monta las rutas bajo r (normalmente app.Group(Prefix)).
func (h *Handler) Register(r fiber.Router) {
	r.Get("/", func(c *fiber.Ctx) error { return c.Redirect(Prefix+"/support", fiber.StatusFound) })
	r.Get("/login", h.loginForm)
	r.Post("/login", h.loginSubmit)
	r.Get("/logout", h.logout)

	r.Get("/support", h.supportPage)
	r.Post("/support", h.supportCreate)
	r.Post("/support/:id/status", h.supportStatus)
	r.Post("/support/:id/reply", h.supportReply)

	r.Get("/recycle-bin", h.binPage)
	r.Post("/recycle-bin/empty", h.binEmpty)
	r.Post("/recycle-bin/:id/restore", h.binRestore)
	r.Post("/recycle-bin/:id/delete", h.binPurge)

	r.Get("/notifications", h.notificationsPage)
	r.Post("/notifications/:id/read", h.notificationRead)
	r.Post("/notifications/:id/delete", h.notificationDelete)

	r.Get("/activity", h.activityPage)

	r.Get("/:entity", h.entityPage)
	r.Post("/:entity/:id/delete", h.entityDelete)
}

// pageData datos comunes del layout.
type pageData struct {
	Title  string
	Active string
	Flash  string
	Error  string
	Data   any
}

func (h *Handler) render(c *fiber.Ctx, page string, d pageData) error {
	d.Flash = c.Query("msg")
	if d.Error == "" {
		d.Error = c.Query("err")
	}
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", d); err != nil {
		h.log.Error().Err(err).Str("page", page).Msg("render consola")
		return c.Status(fiber.StatusInternalServerError).SendString("template error")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *Handler) api(c *fiber.Ctx) (*apiclient.Client, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	cl := h.client
	if tok := c.Cookies(CookieName); tok != "" {
		cl = cl.WithToken(tok)
	}
	return cl, ctx, cancel
}

// unauthorized indica que la API rechazó el token (o falta).
func unauthorized(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func (h *Handler) toLogin(c *fiber.Ctx) error {
	c.ClearCookie(CookieName)
	return c.Redirect(Prefix+"/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
}

// back redirige a target con un aviso (msg) o un error (err) para el toast.
func back(c *fiber.Ctx, target, key, text string) error {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return c.Redirect(target+sep+key+"="+url.QueryEscape(text), fiber.StatusSeeOther)
}

// afterAction redirige tras una mutación; los errores quedan como toast y la página vuelve a consultar.
func (h *Handler) afterAction(c *fiber.Ctx, target, okMsg, failMsg string, err error) error {
	if err != nil {
		if unauthorized(err) {
			return h.toLogin(c)
		}
		h.log.Warn().Err(err).Str("path", c.Path()).Msg("acción de consola fallida")
		return back(c, target, "err", failMsg)
	}
	return back(c, target, "msg", okMsg)
}

// ── Login ────────────────────────────────────────────────────────────────────

func (h *Handler) loginForm(c *fiber.Ctx) error {
	return h.render(c, "login", pageData{Title: "Login", Data: fiber.Map{"Next": c.Query("next")}})
}

func (h *Handler) loginSubmit(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	next := c.FormValue("next")
	if next == "" || !strings.HasPrefix(next, Prefix) {
		next = Prefix + "/support"
	}
	out, err := cl.Login(ctx, dto.LoginRequest{Identifier: c.FormValue("username"), Password: c.FormValue("password")})
	if err != nil {
		msg := "Login failed"
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return h.render(c, "login", pageData{Title: "Login", Error: msg, Data: fiber.Map{"Next": next}})
	}
	if out.Token != "" {
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    out.Token,
			Path:     Prefix,
			MaxAge:   24 * 3600,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

func (h *Handler) logout(c *fiber.Ctx) error {
	c.ClearCookie(CookieName)
	return c.Redirect(Prefix+"/login", fiber.StatusFound)
}

// ── Soporte ──────────────────────────────────────────────────────────────────

type supportView struct {
	Filter    apiclient.TicketFilter
	Tickets   []apiclient.Ticket
	LoadError bool
	Statuses  []string
	Priority  []string
}

func (h *Handler) supportPage(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	view := supportView{
		Filter: apiclient.TicketFilter{
			Status:   c.Query("status"),
			Priority: c.Query("priority"),
			Search:   strings.TrimSpace(c.Query("search")),
		},
		Statuses: []string{"open", "in-progress", "resolved"},
		Priority: []string{"Low", "Medium", "High"},
	}
	tickets, err := cl.Tickets(ctx)
	if err != nil {
		if unauthorized(err) {
			return h.toLogin(c)
		}
		h.log.Warn().Err(err).Msg("consola: tickets no cargados")
		view.LoadError = true
	} else {
		view.Tickets = apiclient.FilterTickets(tickets, view.Filter)
	}
	return h.render(c, "support", pageData{Title: "Support", Active: "support", Data: view})
}

// supportReturn vuelve a la lista conservando los filtros enviados en el formulario.
func supportReturn(c *fiber.Ctx) string {
	q := url.Values{}
	for _, k := range []string{"status", "priority", "search"} {
		if v := c.FormValue("f_" + k); v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return Prefix + "/support"
	}
	return Prefix + "/support?" + q.Encode()
}

func (h *Handler) supportCreate(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	_, err := cl.CreateTicket(ctx, dto.CreateSupportRequest{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Subject:  c.FormValue("subject"),
		Message:  c.FormValue("message"),
		Category: c.FormValue("category"),
		Priority: c.FormValue("priority"),
	})
	return h.afterAction(c, Prefix+"/support", "Support ticket created", "Failed to submit ticket", err)
}

func (h *Handler) supportStatus(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	status := c.FormValue("status")
	_, err := cl.SetTicketStatus(ctx, c.Params("id"), status)
	ok, fail := "Ticket marked "+status, "Failed to mark "+status
	return h.afterAction(c, supportReturn(c), ok, fail, err)
}

func (h *Handler) supportReply(c *fiber.Ctx) error {
	msg := strings.TrimSpace(c.FormValue("reply"))
	if msg == "" {
		return back(c, supportReturn(c), "err", "Reply message cannot be empty")
	}
	cl, ctx, cancel := h.api(c)
	defer cancel()
	_, err := cl.ReplyTicket(ctx, c.Params("id"), msg)
	return h.afterAction(c, supportReturn(c), "Admin reply saved", "Failed to send reply", err)
}

// ── Papelera ─────────────────────────────────────────────────────────────────

type binView struct {
	Entries   []apiclient.BinEntry
	LoadError bool
}

func (h *Handler) binPage(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	var view binView
	entries, err := cl.RecycleBin(ctx)
	if err != nil {
		if unauthorized(err) {
			return h.toLogin(c)
		}
		h.log.Warn().Err(err).Msg("consola: papelera no cargada")
		view.LoadError = true
	}
	view.Entries = entries
	return h.render(c, "recycle_bin", pageData{Title: "Recycle Bin", Active: "recycle-bin", Data: view})
}

func (h *Handler) binRestore(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	_, err := cl.Restore(ctx, c.Params("id"))
	return h.afterAction(c, Prefix+"/recycle-bin", "Item restored", "Failed to restore item", err)
}

func (h *Handler) binPurge(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	err := cl.Purge(ctx, c.Params("id"))
	return h.afterAction(c, Prefix+"/recycle-bin", "Item permanently deleted", "Failed to delete item", err)
}

func (h *Handler) binEmpty(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	n, err := cl.EmptyBin(ctx)
	return h.afterAction(c, Prefix+"/recycle-bin", fmt.Sprintf("%d items deleted", n), "Failed to empty recycle bin", err)
}

// ── Notificaciones ───────────────────────────────────────────────────────────

type notificationsView struct {
	Items     []apiclient.Notification
	LoadError bool
}

func (h *Handler) notificationsPage(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	var view notificationsView
	items, err := cl.Notifications(ctx)
	if err != nil {
		if unauthorized(err) {
			return h.toLogin(c)
		}
		h.log.Warn().Err(err).Msg("consola: notificaciones no cargadas")
		view.LoadError = true
	}
	view.Items = items
	return h.render(c, "notifications", pageData{Title: "Notifications", Active: "notifications", Data: view})
}

func (h *Handler) notificationRead(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	_, err := cl.MarkRead(ctx, c.Params("id"))
	return h.afterAction(c, Prefix+"/notifications", "Notification marked as read", "Failed to update notification", err)
}

func (h *Handler) notificationDelete(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	err := cl.DeleteNotification(ctx, c.Params("id"))
	return h.afterAction(c, Prefix+"/notifications", "Notification deleted", "Failed to delete notification", err)
}

// ── Actividad ────────────────────────────────────────────────────────────────

type activityView struct {
	Items     []apiclient.Activity
	LoadError bool
}

func (h *Handler) activityPage(c *fiber.Ctx) error {
	cl, ctx, cancel := h.api(c)
	defer cancel()
	var view activityView
	items, err := cl.Activity(ctx)
	if err != nil {
		if unauthorized(err) {
			return h.toLogin(c)
		}
		view.LoadError = true
	}
	view.Items = items
	return h.render(c, "activity", pageData{Title: "Activity", Active: "activity", Data: view})
}

// ── Entidades ────────────────────────────────────────────────────────────────

type entityView struct {
	Entity    string
	Columns   []string
	Rows      [][]string
	IDs       []string
	LoadError bool
}

func (h *Handler) entityPage(c *fiber.Ctx) error {
	entity := c.Params("entity")
	cols, ok := entityColumns[entity]
	if !ok {
		return fiber.ErrNotFound
	}
	cl, ctx, cancel := h.api(c)
	defer cancel()
	view := entityView{Entity: entity, Columns: cols}
	docs, err := cl.List(ctx, entity)
	if err != nil {
		if unauthorized(err) {
			return h.toLogin(c)
		}
		h.log.Warn().Err(err).Str("entity", entity).Msg("consola: lista no cargada")
		view.LoadError = true
	}
	for _, d := range docs {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = d.String(col)
		}
		view.Rows = append(view.Rows, row)
		view.IDs = append(view.IDs, d.ID())
	}
	title := strings.ToUpper(entity[:1]) + entity[1:]
	return h.render(c, "entities", pageData{Title: title, Active: entity, Data: view})
}

func (h *Handler) entityDelete(c *fiber.Ctx) error {
	entity := c.Params("entity")
	if _, ok := entityColumns[entity]; !ok {
		return fiber.ErrNotFound
	}
	cl, ctx, cancel := h.api(c)
	defer cancel()
	err := cl.Delete(ctx, entity, c.Params("id"))
	return h.afterAction(c, Prefix+"/"+entity, "Moved to recycle bin", "Failed to delete item", err)
}
