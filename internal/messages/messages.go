// Package messages holds the user-facing strings shared by the browser
// dashboard and the terminal client.
package messages

// Shown when a panel is opened without a session.
const (
	MetricsLoggedOut   = "Please log in to view metrics."
	ClientsLoggedOut   = "Log in to manage clients."
	InvoicesLoggedOut  = "Log in to manage invoices."
	RemindersLoggedOut = "Log in to view reminders."
	AccountLoggedOut   = "Log in to see your account."
)

// Used when a failure carries no message of its own.
const (
	MetricsFailed = "Failed to load metrics"
	LoadFailed    = "Failed to load"
	CreateFailed  = "Failed to create"
	AuthFailed    = "Something went wrong"
)

// Shown when a create succeeded but the list could not be fetched again.
const (
	ClientSavedStaleList  = "Client saved, but the list could not be refreshed. Reload the page to see it."
	InvoiceSavedStaleList = "Invoice saved, but the list could not be refreshed. Reload the page to see it."
)
