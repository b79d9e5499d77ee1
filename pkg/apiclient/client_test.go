package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/pkg/apiclient"
)

func TestClient_TicketsYErrores(t *testing.T) {
	var gotAuth, gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/support", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"t1","name":"Ana","subject":"VPN","status":"open","priority":"High","createdAt":"2026-01-02T03:04:05Z"}]`))
	})
	mux.HandleFunc("/api/support/t1", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"t1","status":"in-progress","adminReply":"ok"}`))
	})
	mux.HandleFunc("/api/vendors/x", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"recurso no encontrado"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := apiclient.New(srv.URL+"/", time.Second).WithToken("tok")
	ctx := context.Background()

	tickets, err := c.Tickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "VPN", tickets[0].Subject)
	assert.Equal(t, 2026, tickets[0].CreatedAt.Year())
	assert.Equal(t, "Bearer tok", gotAuth)

	ticket, err := c.ReplyTicket(ctx, "t1", "  ok ")
	require.NoError(t, err)
	assert.Equal(t, "in-progress", ticket.Status)
	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(gotBody), &sent))
	assert.Equal(t, map[string]string{"adminReply": "ok", "status": "in-progress"}, sent)

	_, err = c.ReplyTicket(ctx, "t1", "   ")
	assert.Error(t, err)

	_, err = c.Get(ctx, "vendors", "x")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestClient_LoginYPapelera(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(dto.LoginResponse{Message: "Login successful", User: dto.UserProfile{Username: in.Username}})
	})
	mux.HandleFunc("/api/recycle-bin/e1/restore", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"success":true,"message":"Item restored","data":{"_id":"n1","name":"Widget"}}`))
	})
	mux.HandleFunc("/api/recycle-bin", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			_, _ = w.Write([]byte(`{"success":true,"deleted":3}`))
			return
		}
		_, _ = w.Write([]byte(`[{"_id":"e1","entityType":"products","data":{"name":"Widget"}},{"_id":"e2","entityType":"users","data":{"username":"ana"}},{"_id":"e3","entityType":"assets","data":{}}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := apiclient.New(srv.URL, 0)
	ctx := context.Background()

	out, err := c.Login(ctx, dto.LoginRequest{Username: "ana", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ana", out.User.Username)
	assert.Empty(t, out.Token)

	entries, err := c.RecycleBin(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Widget", entries[0].Name())
	assert.Equal(t, "ana", entries[1].Name())
	assert.Equal(t, "Unnamed", entries[2].Name())

	doc, err := c.Restore(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "n1", doc.ID())

	n, err := c.EmptyBin(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestFilterTickets(t *testing.T) {
	tickets := []apiclient.Ticket{
		{ID: "1", Name: "Ana", Subject: "Broken login", Status: "open", Priority: "High"},
		{ID: "2", Name: "Luis", Subject: "Printer", Status: "resolved", Priority: "Medium"},
		{ID: "3", Name: "Login Team", Subject: "Access", Status: "open", Priority: "Medium"},
	}

	ids := func(ts []apiclient.Ticket) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(apiclient.FilterTickets(tickets, apiclient.TicketFilter{})))
	assert.Equal(t, []string{"1", "3"}, ids(apiclient.FilterTickets(tickets, apiclient.TicketFilter{Status: "open"})))
	assert.Equal(t, []string{"3"}, ids(apiclient.FilterTickets(tickets, apiclient.TicketFilter{Status: "open", Priority: "Medium"})))
	assert.Equal(t, []string{"1", "3"}, ids(apiclient.FilterTickets(tickets, apiclient.TicketFilter{Search: "LOGIN"})))
	assert.False(t, apiclient.TicketFilter{Search: "  "}.Active())
	assert.True(t, apiclient.TicketFilter{Priority: "High"}.Active())
}
