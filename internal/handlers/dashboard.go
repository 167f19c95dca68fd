package handlers

import (
	"net/http"

	"nudgepay/internal/messages"
)

// Dashboard renders the metrics page shell.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.panelPage(w, r, Page{
		Title:    "Dashboard",
		Heading:  "Overview",
		PanelID:  "metrics-panel",
		PanelURL: "/dashboard/panel",
		Loading:  "Loading metrics...",
	}, messages.MetricsLoggedOut)
}

// DashboardPanel renders the metrics cards.
func (h *Handlers) DashboardPanel(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "message", messages.MetricsLoggedOut)
		return
	}

	metrics, err := h.reads.GetMetrics(r.Context(), token)
	if err != nil {
		h.fragment(w, "message", h.failure(r, "metrics", err, messages.MetricsFailed))
		return
	}
	h.fragment(w, "metrics", metrics)
}
