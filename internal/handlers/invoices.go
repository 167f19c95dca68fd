package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"golang.org/x/sync/errgroup"

	"nudgepay/internal/messages"
	"nudgepay/internal/models"
	"nudgepay/internal/validation"
)

// InvoiceStatuses are offered as filters above the invoice list. The API
// accepts any status string; these are the ones it assigns.
var InvoiceStatuses = []string{"sent", "paid", "overdue"}

// InvoicesPanel is the data for the invoices fragment.
type InvoicesPanel struct {
	CSRF     template.HTML
	Status   string
	Clients  []models.Client
	Invoices []models.Invoice
}

// Invoices renders the invoices page shell.
func (h *Handlers) Invoices(w http.ResponseWriter, r *http.Request) {
	status := statusParam(r)
	h.panelPage(w, r, Page{
		Title:    "Invoices",
		Heading:  "Invoices",
		PanelID:  "invoices-panel",
		PanelURL: withStatus("/invoices/panel", status),
		Loading:  "Loading invoices...",
		Filters:  filters("/invoices", InvoiceStatuses, status),
	}, messages.InvoicesLoggedOut)
}

// InvoicesPanelFragment renders the new-invoice form and the invoice list.
// Clients (for the form) and invoices are fetched concurrently; the first
// failure cancels the other and is the one shown.
func (h *Handlers) InvoicesPanelFragment(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "message", messages.InvoicesLoggedOut)
		return
	}

	status := statusParam(r)
	var (
		clients  []models.Client
		invoices []models.Invoice
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		clients, err = h.reads.ListClients(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = h.reads.ListInvoices(ctx, token, status)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fragment(w, "message", h.failure(r, "invoices", err, messages.LoadFailed))
		return
	}

	h.fragment(w, "invoices-panel", InvoicesPanel{
		CSRF:     csrf.TemplateField(r),
		Status:   status,
		Clients:  clients,
		Invoices: invoices,
	})
}

// CreateInvoice validates the new-invoice form locally, creates the invoice
// and swaps a freshly fetched list into #invoice-list. Invalid input never
// reaches the API.
func (h *Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "form-error", messages.InvoicesLoggedOut)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fragment(w, "form-error", messages.CreateFailed)
		return
	}

	payload, err := validation.Invoice(validation.InvoiceInput{
		ClientID:        r.FormValue("client_id"),
		Number:          r.FormValue("number"),
		Amount:          r.FormValue("amount"),
		Currency:        r.FormValue("currency"),
		DueDate:         r.FormValue("due_date"),
		ReminderOffsets: r.FormValue("reminder_offsets"),
	})
	if err != nil {
		h.fragment(w, "form-error", errorMessage(err, messages.CreateFailed))
		return
	}

	if _, err := h.api.CreateInvoice(r.Context(), token, payload); err != nil {
		h.fragment(w, "form-error", h.failure(r, "invoices", err, messages.CreateFailed))
		return
	}

	invoices, err := h.api.ListInvoices(r.Context(), token, strings.TrimSpace(r.FormValue("status")))
	if err != nil {
		h.failure(r, "invoices", err, messages.LoadFailed)
		w.Header().Set("HX-Trigger", formResetEvent)
		h.fragment(w, "form-error", messages.InvoiceSavedStaleList)
		return
	}

	w.Header().Set("HX-Retarget", "#invoice-list")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.Header().Set("HX-Trigger", formResetEvent)
	h.fragment(w, "invoice-list-refreshed", invoices)
}

// InvoiceDetail renders the page shell for one invoice.
func (h *Handlers) InvoiceDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.panelPage(w, r, Page{
		Title:    "Invoice",
		Heading:  "Invoice",
		PanelID:  "invoice-detail",
		PanelURL: "/invoices/" + url.PathEscape(id) + "/panel",
		Loading:  "Loading invoice...",
	}, messages.InvoicesLoggedOut)
}

// InvoiceDetailPanel renders an invoice with its reminder schedule.
func (h *Handlers) InvoiceDetailPanel(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "message", messages.InvoicesLoggedOut)
		return
	}

	invoice, err := h.api.GetInvoice(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		h.fragment(w, "message", h.failure(r, "invoice", err, messages.LoadFailed))
		return
	}
	h.fragment(w, "invoice-detail", invoice)
}

func statusParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("status"))
}

func withStatus(path, status string) string {
	if status == "" {
		return path
	}
	return path + "?" + url.Values{"status": {status}}.Encode()
}

func filters(path string, statuses []string, active string) []Filter {
	out := []Filter{{Label: "All", URL: path, Active: active == ""}}
	for _, s := range statuses {
		out = append(out, Filter{Label: s, URL: withStatus(path, s), Active: s == active})
	}
	return out
}
