package api

import (
	"context"

	"golang.org/x/sync/singleflight"

	"nudgepay/internal/models"
)

// Loader collapses concurrent identical reads into one API call keyed by
// (path, token). Nothing is kept once the call returns. Writes go straight to
// the embedded Client.
//
// Results are shared between callers and must not be modified.
type Loader struct {
	*Client
	group singleflight.Group
}

// NewLoader wraps c.
func NewLoader(c *Client) *Loader {
	return &Loader{Client: c}
}

// load runs fn once per in-flight key. The shared call is detached from any
// single caller's cancellation; each caller stops waiting when its own
// context is done.
func (l *Loader) load(ctx context.Context, path, token string, fn func(context.Context) (any, error)) (any, error) {
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(path+"\x00"+token, func() (any, error) {
		return fn(shared)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, &Error{Message: FallbackMessage, Err: ctx.Err()}
	}
}

// GetMetrics is Client.GetMetrics with deduplication.
func (l *Loader) GetMetrics(ctx context.Context, token string) (*models.Metrics, error) {
	v, err := l.load(ctx, "/api/metrics", token, func(ctx context.Context) (any, error) {
		return l.Client.GetMetrics(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Metrics), nil
}

// ListClients is Client.ListClients with deduplication.
func (l *Loader) ListClients(ctx context.Context, token string) ([]models.Client, error) {
	v, err := l.load(ctx, "/api/clients", token, func(ctx context.Context) (any, error) {
		return l.Client.ListClients(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Client), nil
}

// ListInvoices is Client.ListInvoices with deduplication.
func (l *Loader) ListInvoices(ctx context.Context, token, status string) ([]models.Invoice, error) {
	v, err := l.load(ctx, withStatus("/api/invoices", status), token, func(ctx context.Context) (any, error) {
		return l.Client.ListInvoices(ctx, token, status)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Invoice), nil
}

// ListReminders is Client.ListReminders with deduplication.
func (l *Loader) ListReminders(ctx context.Context, token, status string) ([]models.Reminder, error) {
	v, err := l.load(ctx, withStatus("/api/reminders", status), token, func(ctx context.Context) (any, error) {
		return l.Client.ListReminders(ctx, token, status)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Reminder), nil
}

// ListOutbox is Client.ListOutbox with deduplication.
func (l *Loader) ListOutbox(ctx context.Context, token string) ([]models.OutboxEmail, error) {
	v, err := l.load(ctx, "/api/outbox", token, func(ctx context.Context) (any, error) {
		return l.Client.ListOutbox(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.OutboxEmail), nil
}
