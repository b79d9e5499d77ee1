// Package apiclient cliente HTTP tipado de la API REST de Asseta.
// Lo usan la consola web y la CLI.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/asseta-api/internal/application/dto"
)

// Document documento genérico tal como lo devuelve la API.
type Document map[string]any

// ID devuelve el _id del documento o "".
func (d Document) ID() string {
	s, _ := d["_id"].(string)
	return s
}

// String devuelve el campo key como texto ("" si falta).
func (d Document) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Ticket de soporte.
type Ticket struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Category   string    `json:"category"`
	Priority   string    `json:"priority"`
	Status     string    `json:"status"`
	AdminReply string    `json:"adminReply"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Notification aviso del feed.
type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// BinEntry entrada de la papelera.
type BinEntry struct {
	ID         string    `json:"_id"`
	EntityType string    `json:"entityType"`
	Data       Document  `json:"data"`
	DeletedAt  time.Time `json:"deletedAt"`
}

// Name nombre visible del documento archivado ("Unnamed" si no tiene).
func (e BinEntry) Name() string {
	for _, k := range []string{"name", "username", "subject"} {
		if s := e.Data.String(k); s != "" {
			return s
		}
	}
	return "Unnamed"
}

// Activity entrada del log de actividad.
type Activity struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

// APIError respuesta no exitosa de la API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Client cliente de la API. Es seguro para uso concurrente.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// New crea un cliente contra base (p. ej. http://127.0.0.1:5000) con timeout por petición.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// WithToken copia del cliente que envía Authorization: Bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Base URL base configurada.
func (c *Client) Base() string { return c.base }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var er dto.ErrorResponse
		if json.Unmarshal(data, &er) == nil {
			apiErr.Code, apiErr.Message, apiErr.Fields = er.Code, er.Message, er.Fields
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func entityPath(entity string, id ...string) string {
	p := "/api/" + url.PathEscape(entity)
	for _, s := range id {
		p += "/" + url.PathEscape(s)
	}
	return p
}

// List documentos de una colección CRUD.
func (c *Client) List(ctx context.Context, entity string) ([]Document, error) {
	var out []Document
	err := c.do(ctx, http.MethodGet, entityPath(entity), nil, &out)
	return out, err
}

// Get un documento.
func (c *Client) Get(ctx context.Context, entity, id string) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodGet, entityPath(entity, id), nil, &out)
	return out, err
}

// Create crea un documento.
func (c *Client) Create(ctx context.Context, entity string, fields map[string]any) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPost, entityPath(entity), fields, &out)
	return out, err
}

// Update actualiza campos de un documento.
func (c *Client) Update(ctx context.Context, entity, id string, fields map[string]any) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPut, entityPath(entity, id), fields, &out)
	return out, err
}

// Delete mueve el documento a la papelera.
func (c *Client) Delete(ctx context.Context, entity, id string) error {
	return c.do(ctx, http.MethodDelete, entityPath(entity, id), nil, nil)
}

// Tickets lista los tickets de soporte.
func (c *Client) Tickets(ctx context.Context) ([]Ticket, error) {
	var out []Ticket
	err := c.do(ctx, http.MethodGet, "/api/support", nil, &out)
	return out, err
}

// CreateTicket abre un ticket.
func (c *Client) CreateTicket(ctx context.Context, in dto.CreateSupportRequest) (Ticket, error) {
	var out Ticket
	err := c.do(ctx, http.MethodPost, "/api/support", in, &out)
	return out, err
}

// UpdateTicket cambia estado o respuesta de un ticket.
func (c *Client) UpdateTicket(ctx context.Context, id string, in dto.UpdateSupportRequest) (Ticket, error) {
	var out Ticket
	err := c.do(ctx, http.MethodPut, entityPath("support", id), in, &out)
	return out, err
}

// SetTicketStatus atajo de UpdateTicket para el estado.
func (c *Client) SetTicketStatus(ctx context.Context, id, status string) (Ticket, error) {
	return c.UpdateTicket(ctx, id, dto.UpdateSupportRequest{Status: &status})
}

// ReplyTicket guarda la respuesta del administrador y pasa el ticket a in-progress.
func (c *Client) ReplyTicket(ctx context.Context, id, message string) (Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Ticket{}, fmt.Errorf("la respuesta no puede estar vacía")
	}
	status := "in-progress"
	return c.UpdateTicket(ctx, id, dto.UpdateSupportRequest{AdminReply: &message, Status: &status})
}

// TicketPDF descarga el ticket como PDF.
func (c *Client) TicketPDF(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+entityPath("support", id, "pdf"), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticket pdf: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// Notifications lista el feed.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &out)
	return out, err
}

// MarkRead marca una notificación como leída.
func (c *Client) MarkRead(ctx context.Context, id string) (Notification, error) {
	var out Notification
	err := c.do(ctx, http.MethodPut, entityPath("notifications", id, "read"), nil, &out)
	return out, err
}

// DeleteNotification elimina una notificación.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, entityPath("notifications", id), nil, nil)
}

// RecycleBin lista la papelera.
func (c *Client) RecycleBin(ctx context.Context) ([]BinEntry, error) {
	var out []BinEntry
	err := c.do(ctx, http.MethodGet, "/api/recycle-bin", nil, &out)
	return out, err
}

// Restore devuelve la entrada a su colección.
func (c *Client) Restore(ctx context.Context, id string) (Document, error) {
	var out dto.RestoreResponse
	if err := c.do(ctx, http.MethodPost, entityPath("recycle-bin", id, "restore"), nil, &out); err != nil {
		return nil, err
	}
	return Document(out.Data), nil
}

// Purge elimina la entrada para siempre.
func (c *Client) Purge(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, entityPath("recycle-bin", id), nil, nil)
}

// EmptyBin vacía la papelera.
func (c *Client) EmptyBin(ctx context.Context) (int64, error) {
	var out dto.EmptyBinResponse
	err := c.do(ctx, http.MethodDelete, "/api/recycle-bin", nil, &out)
	return out.Deleted, err
}

// Activity log de actividad.
func (c *Client) Activity(ctx context.Context) ([]Activity, error) {
	var out []Activity
	err := c.do(ctx, http.MethodGet, "/api/activity", nil, &out)
	return out, err
}

// Register registra un usuario.
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (string, error) {
	var out dto.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &out)
	return out.Message, err
}

// Login inicia sesión; Token viene vacío si el servidor no firma JWT.
func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
