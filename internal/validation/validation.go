// Package validation checks form input before anything is sent to the API.
package validation

import (
	"strconv"
	"strings"

	"nudgepay/internal/models"
	"nudgepay/internal/money"
)

// Messages shown for rejected forms.
const (
	MsgIncompleteInvoice = "Fill out all invoice fields."
	MsgBadOffsets        = "Reminder offsets must be whole days, e.g. -3,0,7."
)

// Violations maps a form field to the rule it broke.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Required records field when value is blank.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Error is a local validation failure. Message is shown to the user exactly
// like a server error message.
type Error struct {
	Message string
	Fields  Violations
}

func (e *Error) Error() string {
	return e.Message
}

// InvoiceInput is the raw invoice form as typed by the user.
type InvoiceInput struct {
	ClientID        string
	Number          string
	Amount          string
	Currency        string
	DueDate         string
	ReminderOffsets string
}

// Invoice validates in and builds the create payload. The amount is parsed as
// a decimal and converted to integer cents; currency defaults to USD and
// reminder offsets to models.DefaultReminderOffsets.
func Invoice(in InvoiceInput) (models.CreateInvoiceRequest, error) {
	v := Violations{}
	Required("client_id", in.ClientID, v)
	Required("number", in.Number, v)
	Required("due_date", in.DueDate, v)

	cents, err := money.ParseCents(in.Amount)
	if err != nil || cents <= 0 {
		v["amount"] = "invalid"
	}
	if !v.Empty() {
		return models.CreateInvoiceRequest{}, &Error{Message: MsgIncompleteInvoice, Fields: v}
	}

	offsets, err := ParseOffsets(in.ReminderOffsets)
	if err != nil {
		return models.CreateInvoiceRequest{}, &Error{Message: MsgBadOffsets, Fields: Violations{"reminder_offsets": "invalid"}}
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}

	return models.CreateInvoiceRequest{
		ClientID:        strings.TrimSpace(in.ClientID),
		Number:          strings.TrimSpace(in.Number),
		AmountCents:     cents,
		Currency:        currency,
		DueDate:         strings.TrimSpace(in.DueDate),
		ReminderOffsets: offsets,
	}, nil
}

// ParseOffsets parses a comma or space separated list of signed day counts.
// Blank input yields a copy of models.DefaultReminderOffsets.
func ParseOffsets(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 0 {
		return append([]int(nil), models.DefaultReminderOffsets...), nil
	}
	offsets := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, n)
	}
	return offsets, nil
}

// ClientInput is the raw client form.
type ClientInput struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Notes   string
}

// Client builds the create payload. A blank company is sent as "-".
func Client(in ClientInput) models.CreateClientRequest {
	company := strings.TrimSpace(in.Company)
	if company == "" {
		company = "-"
	}
	return models.CreateClientRequest{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Company: company,
		Phone:   strings.TrimSpace(in.Phone),
		Notes:   strings.TrimSpace(in.Notes),
	}
}
