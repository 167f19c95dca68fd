package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"nudgepay/internal/api"
	"nudgepay/internal/messages"
	"nudgepay/internal/models"
	"nudgepay/internal/money"
	"nudgepay/internal/validation"
)

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := a.flags("signup")
	email := fs.String("email", "", "Account email")
	org := fs.String("org", "", "Studio or agency name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *org == "" {
		fs.PrintDefaults()
		return errors.New("missing required flags: email, org")
	}

	password, err := a.promptPassword(*passwordFlag)
	if err != nil {
		return err
	}
	resp, err := a.api.Register(ctx, models.RegisterRequest{Email: *email, Password: password, OrgName: *org})
	if err != nil {
		return errors.New(api.Message(err, messages.AuthFailed))
	}
	if err := a.remember(resp); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Welcome to NudgePay, %s.\n", *email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "Account email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.PrintDefaults()
		return errors.New("missing required flags: email")
	}

	password, err := a.promptPassword(*passwordFlag)
	if err != nil {
		return err
	}
	resp, err := a.api.Login(ctx, models.LoginRequest{Email: *email, Password: password})
	if err != nil {
		return errors.New(api.Message(err, messages.AuthFailed))
	}
	if err := a.remember(resp); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged in.")
	return nil
}

func (a *app) remember(resp *models.AuthResponse) error {
	if resp.Token == "" {
		return errors.New(messages.AuthFailed)
	}
	if err := a.session.Set(resp.Token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (a *app) logout() error {
	if err := a.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Fprintln(a.stdout, "Logged out.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	token, err := a.token(messages.AccountLoggedOut)
	if err != nil {
		return err
	}
	me, err := a.api.Me(ctx, token)
	if err != nil {
		return errors.New(api.Message(err, messages.LoadFailed))
	}
	fmt.Fprintf(a.stdout, "%s (%s)\n", me.User.Email, me.Org.Name)
	return nil
}

func (a *app) metrics(ctx context.Context) error {
	token, err := a.token(messages.MetricsLoggedOut)
	if err != nil {
		return err
	}
	m, err := a.api.GetMetrics(ctx, token)
	if err != nil {
		return errors.New(api.Message(err, messages.MetricsFailed))
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Outstanding receivables\t$%s\n", money.FormatCents(m.OutstandingCents))
	fmt.Fprintf(tw, "Overdue invoices\t%d\n", m.Overdue)
	fmt.Fprintf(tw, "Reminders scheduled (7d)\t%d\n", m.UpcomingReminders)
	fmt.Fprintf(tw, "Active clients\t%d\n", m.Clients)
	return tw.Flush()
}

func (a *app) clients(ctx context.Context) error {
	token, err := a.token(messages.ClientsLoggedOut)
	if err != nil {
		return err
	}
	clients, err := a.api.ListClients(ctx, token)
	if err != nil {
		return errors.New(api.Message(err, messages.LoadFailed))
	}
	return a.printClients(clients)
}

func (a *app) printClients(clients []models.Client) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCOMPANY\tADDED")
	for _, c := range clients {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Company, models.DisplayDate(c.CreatedAt))
	}
	return tw.Flush()
}

// addClient creates a client, then lists clients again from the API.
func (a *app) addClient(ctx context.Context, args []string) error {
	fs := a.flags("clients add")
	name := fs.String("name", "", "Client name")
	email := fs.String("email", "", "Client email")
	company := fs.String("company", "", "Company")
	phone := fs.String("phone", "", "Phone")
	notes := fs.String("notes", "", "Notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.token(messages.ClientsLoggedOut)
	if err != nil {
		return err
	}
	payload := validation.Client(validation.ClientInput{Name: *name, Email: *email, Company: *company, Phone: *phone, Notes: *notes})
	created, err := a.api.CreateClient(ctx, token, payload)
	if err != nil {
		return errors.New(api.Message(err, messages.CreateFailed))
	}
	fmt.Fprintf(a.stdout, "Created client %s.\n\n", created.ID)

	clients, err := a.api.ListClients(ctx, token)
	if err != nil {
		return errors.New(api.Message(err, messages.LoadFailed))
	}
	return a.printClients(clients)
}

func (a *app) invoices(ctx context.Context, args []string) error {
	fs := a.flags("invoices")
	status := fs.String("status", "", "Only invoices with this status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.token(messages.InvoicesLoggedOut)
	if err != nil {
		return err
	}
	invoices, err := a.api.ListInvoices(ctx, token, *status)
	if err != nil {
		return errors.New(api.Message(err, messages.LoadFailed))
	}
	return a.printInvoices(invoices)
}

func (a *app) printInvoices(invoices []models.Invoice) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tAMOUNT\tDUE\tSTATUS")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n",
			inv.ID, inv.Number, money.FormatCents(inv.AmountCents), inv.Currency, models.DisplayDate(inv.DueDate), inv.Status)
	}
	return tw.Flush()
}

// addInvoice validates locally, creates the invoice and lists invoices again.
// Invalid input never reaches the API.
func (a *app) addInvoice(ctx context.Context, args []string) error {
	fs := a.flags("invoices add")
	clientID := fs.String("client", "", "Client id")
	number := fs.String("number", "", "Invoice number")
	amount := fs.String("amount", "", "Amount, e.g. 12.50")
	currency := fs.String("currency", "", "Currency (default USD)")
	due := fs.String("due", "", "Due date, YYYY-MM-DD")
	offsets := fs.String("offsets", "", "Reminder offsets in days (default -3,0,7)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.token(messages.InvoicesLoggedOut)
	if err != nil {
		return err
	}
	payload, err := validation.Invoice(validation.InvoiceInput{
		ClientID:        *clientID,
		Number:          *number,
		Amount:          *amount,
		Currency:        *currency,
		DueDate:         *due,
		ReminderOffsets: *offsets,
	})
	if err != nil {
		return err
	}

	created, err := a.api.CreateInvoice(ctx, token, payload)
	if err != nil {
		return errors.New(api.Message(err, messages.CreateFailed))
	}
	fmt.Fprintf(a.stdout, "Created invoice %s.\n\n", created.ID)

	invoices, err := a.api.ListInvoices(ctx, token, "")
	if err != nil {
		return errors.New(api.Message(err, messages.LoadFailed))
	}
	return a.printInvoices(invoices)
}

func (a *app) reminders(ctx context.Context, args []string) error {
	fs := a.flags("reminders")
	status := fs.String("status", "", "Only reminders with this status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.token(messages.RemindersLoggedOut)
	if err != nil {
		return err
	}
	reminders, err := a.api.ListReminders(ctx, token, *status)
	if err != nil {
		return errors.New(api.Message(err, messages.LoadFailed))
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INVOICE\tSCHEDULED\tSTATUS")
	for _, r := range reminders {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.InvoiceNumber, models.DisplayDate(r.ScheduledFor), r.Status)
	}
	return tw.Flush()
}

func (a *app) outbox(ctx context.Context) error {
	token, err := a.token(messages.RemindersLoggedOut)
	if err != nil {
		return err
	}
	outbox, err := a.api.ListOutbox(ctx, token)
	if err != nil {
		return errors.New(api.Message(err, messages.LoadFailed))
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECIPIENT\tSUBJECT\tSENT")
	for _, e := range outbox {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ToEmail, strings.TrimSpace(e.Subject), models.DisplayDate(e.CreatedAt))
	}
	return tw.Flush()
}
