package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"nudgepay/internal/models"
)

const (
	testEmail    = "owner@signal.studio"
	testPassword = "testpass123"
	testToken    = "e2e-token"
)

// fakeAPI is a small in-memory NudgePay API for driving the dashboard.
type fakeAPI struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	clients  []models.Client
	invoices []models.Invoice
	nextID   int
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{mux: http.NewServeMux()}
	f.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	f.mux.HandleFunc("POST /api/auth/login", f.login)
	f.mux.HandleFunc("GET /api/metrics", f.authed(f.metrics))
	f.mux.HandleFunc("GET /api/clients", f.authed(f.listClients))
	f.mux.HandleFunc("POST /api/clients", f.authed(f.createClient))
	f.mux.HandleFunc("GET /api/invoices", f.authed(f.listInvoices))
	f.mux.HandleFunc("POST /api/invoices", f.authed(f.createInvoice))
	f.mux.HandleFunc("GET /api/reminders", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"reminders": []models.Reminder{}})
	}))
	f.mux.HandleFunc("GET /api/outbox", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"outbox": []models.OutboxEmail{}})
	}))
	return f
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email != testEmail || req.Password != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: testToken})
}

func (f *fakeAPI) metrics(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var outstanding int64
	for _, inv := range f.invoices {
		outstanding += inv.AmountCents
	}
	writeJSON(w, http.StatusOK, models.Metrics{
		Clients:          len(f.clients),
		Invoices:         len(f.invoices),
		OutstandingCents: outstanding,
	})
}

func (f *fakeAPI) listClients(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"clients": append([]models.Client{}, f.clients...)})
}

func (f *fakeAPI) createClient(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required fields"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.Client{
		ID:        f.id("c"),
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	f.clients = append(f.clients, c)
	writeJSON(w, http.StatusCreated, models.Created{ID: c.ID})
}

func (f *fakeAPI) listInvoices(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range f.invoices {
		if status == "" || inv.Status == status {
			out = append(out, inv)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoices": out})
}

func (f *fakeAPI) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := models.Invoice{
		ID:          f.id("i"),
		ClientID:    req.ClientID,
		Number:      req.Number,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		DueDate:     req.DueDate + "T00:00:00Z",
		Status:      "sent",
	}
	f.invoices = append(f.invoices, inv)
	writeJSON(w, http.StatusCreated, models.Created{ID: inv.ID})
}
