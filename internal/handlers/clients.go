package handlers

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"nudgepay/internal/messages"
	"nudgepay/internal/models"
	"nudgepay/internal/validation"
)

// ClientsPanel is the data for the clients fragment.
type ClientsPanel struct {
	CSRF    template.HTML
	Clients []models.Client
}

// Clients renders the clients page shell.
func (h *Handlers) Clients(w http.ResponseWriter, r *http.Request) {
	h.panelPage(w, r, Page{
		Title:    "Clients",
		Heading:  "Clients",
		PanelID:  "clients-panel",
		PanelURL: "/clients/panel",
		Loading:  "Loading clients...",
	}, messages.ClientsLoggedOut)
}

// ClientsPanelFragment renders the add-client form and the client list.
func (h *Handlers) ClientsPanelFragment(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "message", messages.ClientsLoggedOut)
		return
	}

	clients, err := h.reads.ListClients(r.Context(), token)
	if err != nil {
		h.fragment(w, "message", h.failure(r, "clients", err, messages.LoadFailed))
		return
	}
	h.fragment(w, "clients-panel", ClientsPanel{CSRF: csrf.TemplateField(r), Clients: clients})
}

// CreateClient handles the add-client form. On success the list is fetched
// again and swapped into #client-list; on failure only the form's error
// slot changes so the typed values stay put.
func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "form-error", messages.ClientsLoggedOut)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fragment(w, "form-error", messages.CreateFailed)
		return
	}

	payload := validation.Client(validation.ClientInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Company: r.FormValue("company"),
		Phone:   r.FormValue("phone"),
		Notes:   r.FormValue("notes"),
	})
	if _, err := h.api.CreateClient(r.Context(), token, payload); err != nil {
		h.fragment(w, "form-error", h.failure(r, "clients", err, messages.CreateFailed))
		return
	}

	clients, err := h.api.ListClients(r.Context(), token)
	if err != nil {
		// The client exists now; clear the form so it is not submitted twice.
		h.failure(r, "clients", err, messages.LoadFailed)
		w.Header().Set("HX-Trigger", formResetEvent)
		h.fragment(w, "form-error", messages.ClientSavedStaleList)
		return
	}

	w.Header().Set("HX-Retarget", "#client-list")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.Header().Set("HX-Trigger", formResetEvent)
	h.fragment(w, "client-list-refreshed", clients)
}

// ClientDetail renders the page shell for one client.
func (h *Handlers) ClientDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.panelPage(w, r, Page{
		Title:    "Client",
		Heading:  "Client",
		PanelID:  "client-detail",
		PanelURL: "/clients/" + url.PathEscape(id) + "/panel",
		Loading:  "Loading client...",
	}, messages.ClientsLoggedOut)
}

// ClientDetailPanel renders one client's record.
func (h *Handlers) ClientDetailPanel(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "message", messages.ClientsLoggedOut)
		return
	}

	client, err := h.api.GetClient(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		h.fragment(w, "message", h.failure(r, "client", err, messages.LoadFailed))
		return
	}
	h.fragment(w, "client-detail", client)
}
