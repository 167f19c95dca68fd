package api

import (
	"context"
	"net/http"
	"net/url"

	"nudgepay/internal/models"
)

// Register creates an account and organization and returns a session token.
func (c *Client) Register(ctx context.Context, payload models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/auth/register", Body: payload}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, payload models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/auth/login", Body: payload}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account behind token.
func (c *Client) Me(ctx context.Context, token string) (*models.Account, error) {
	var out models.Account
	if err := c.Do(ctx, Request{Path: "/api/me", Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMetrics returns the dashboard metrics snapshot.
func (c *Client) GetMetrics(ctx context.Context, token string) (*models.Metrics, error) {
	var out models.Metrics
	if err := c.Do(ctx, Request{Path: "/api/metrics", Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClients returns every client of the organization.
func (c *Client) ListClients(ctx context.Context, token string) ([]models.Client, error) {
	var out struct {
		Clients []models.Client `json:"clients"`
	}
	if err := c.Do(ctx, Request{Path: "/api/clients", Token: token}, &out); err != nil {
		return nil, err
	}
	return out.Clients, nil
}

// GetClient returns a single client.
func (c *Client) GetClient(ctx context.Context, token, id string) (*models.Client, error) {
	var out models.Client
	if err := c.Do(ctx, Request{Path: "/api/clients/" + url.PathEscape(id), Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient creates a client and returns its id.
func (c *Client) CreateClient(ctx context.Context, token string, payload models.CreateClientRequest) (*models.Created, error) {
	var out models.Created
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/clients", Token: token, Body: payload}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvoices returns invoices, optionally filtered by status.
func (c *Client) ListInvoices(ctx context.Context, token, status string) ([]models.Invoice, error) {
	var out struct {
		Invoices []models.Invoice `json:"invoices"`
	}
	if err := c.Do(ctx, Request{Path: withStatus("/api/invoices", status), Token: token}, &out); err != nil {
		return nil, err
	}
	return out.Invoices, nil
}

// GetInvoice returns an invoice with its reminder schedule.
func (c *Client) GetInvoice(ctx context.Context, token, id string) (*models.InvoiceDetail, error) {
	var out models.InvoiceDetail
	if err := c.Do(ctx, Request{Path: "/api/invoices/" + url.PathEscape(id), Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvoice creates an invoice and returns its id.
func (c *Client) CreateInvoice(ctx context.Context, token string, payload models.CreateInvoiceRequest) (*models.Created, error) {
	var out models.Created
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/invoices", Token: token, Body: payload}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReminders returns reminders, optionally filtered by status.
func (c *Client) ListReminders(ctx context.Context, token, status string) ([]models.Reminder, error) {
	var out struct {
		Reminders []models.Reminder `json:"reminders"`
	}
	if err := c.Do(ctx, Request{Path: withStatus("/api/reminders", status), Token: token}, &out); err != nil {
		return nil, err
	}
	return out.Reminders, nil
}

// ListOutbox returns sent notifications.
func (c *Client) ListOutbox(ctx context.Context, token string) ([]models.OutboxEmail, error) {
	var out struct {
		Outbox []models.OutboxEmail `json:"outbox"`
	}
	if err := c.Do(ctx, Request{Path: "/api/outbox", Token: token}, &out); err != nil {
		return nil, err
	}
	return out.Outbox, nil
}

// Health checks that the API server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.Do(ctx, Request{Path: "/health"}, nil)
}

func withStatus(path, status string) string {
	if status == "" {
		return path
	}
	return path + "?" + url.Values{"status": {status}}.Encode()
}
