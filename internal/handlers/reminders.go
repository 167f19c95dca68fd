package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"nudgepay/internal/messages"
	"nudgepay/internal/models"
)

// ReminderStatuses are offered as filters above the reminder list.
var ReminderStatuses = []string{"scheduled", "sent"}

// RemindersPanel is the data for the reminders fragment.
type RemindersPanel struct {
	Reminders []models.Reminder
	Outbox    []models.OutboxEmail
}

// Reminders renders the reminders page shell.
func (h *Handlers) Reminders(w http.ResponseWriter, r *http.Request) {
	status := statusParam(r)
	h.panelPage(w, r, Page{
		Title:    "Reminders",
		Heading:  "Reminders",
		PanelID:  "reminders-panel",
		PanelURL: withStatus("/reminders/panel", status),
		Loading:  "Loading reminders...",
		Filters:  filters("/reminders", ReminderStatuses, status),
	}, messages.RemindersLoggedOut)
}

// RemindersPanelFragment renders upcoming reminders and the outbox.
func (h *Handlers) RemindersPanelFragment(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		h.fragment(w, "message", messages.RemindersLoggedOut)
		return
	}

	var data RemindersPanel
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Reminders, err = h.reads.ListReminders(ctx, token, statusParam(r))
		return err
	})
	g.Go(func() error {
		var err error
		data.Outbox, err = h.reads.ListOutbox(ctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fragment(w, "message", h.failure(r, "reminders", err, messages.LoadFailed))
		return
	}
	h.fragment(w, "reminders-panel", data)
}
