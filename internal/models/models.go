package models

// Client represents a billing contact owned by the organization.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Invoice represents an invoice record. AmountCents is always in minor
// currency units.
type Invoice struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	TemplateID  *string `json:"template_id,omitempty"`
	Number      string  `json:"number"`
	AmountCents int64   `json:"amount_cents"`
	Currency    string  `json:"currency"`
	DueDate     string  `json:"due_date"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// InvoiceDetail is an invoice together with its reminder schedule.
type InvoiceDetail struct {
	Invoice
	Reminders []Reminder `json:"reminders"`
}

// Reminder represents a scheduled reminder for an invoice.
type Reminder struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	ScheduledFor  string  `json:"scheduled_for"`
	SentAt        *string `json:"sent_at,omitempty"`
	Status        string  `json:"status"`
}

// OutboxEmail is an immutable record of a sent notification.
type OutboxEmail struct {
	ID         string `json:"id"`
	ReminderID string `json:"reminder_id,omitempty"`
	ToEmail    string `json:"to_email"`
	Subject    string `json:"subject"`
	Body       string `json:"body,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// Metrics is the aggregate snapshot shown on the dashboard.
type Metrics struct {
	Clients           int   `json:"clients"`
	Invoices          int   `json:"invoices"`
	Overdue           int   `json:"overdue"`
	UpcomingReminders int   `json:"upcoming_reminders"`
	OutstandingCents  int64 `json:"outstanding_cents"`
}

// User is the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Org is the organization the user belongs to.
type Org struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is the response of the "who am I" endpoint.
type Account struct {
	User User `json:"user"`
	Org  Org  `json:"org"`
}

// AuthResponse is returned by register and login. Only Token is guaranteed.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
	Org   *Org   `json:"org,omitempty"`
}

// Created is returned by create endpoints.
type Created struct {
	ID string `json:"id"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OrgName  string `json:"org_name"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateClientRequest is the payload for creating a client.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
// ReminderOffsets are days relative to the due date.
type CreateInvoiceRequest struct {
	ClientID        string `json:"client_id"`
	Number          string `json:"number"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	DueDate         string `json:"due_date"`
	ReminderOffsets []int  `json:"reminder_offsets,omitempty"`
}

// DefaultReminderOffsets are attached to new invoices when none are given.
var DefaultReminderOffsets = []int{-3, 0, 7}

// DisplayDate truncates an ISO-8601 timestamp to its date part.
func DisplayDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
