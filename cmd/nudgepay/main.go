package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"nudgepay/internal/api"
	"nudgepay/internal/config"
	"nudgepay/internal/session"
	"nudgepay/internal/storage"
)

const usage = `Usage: nudgepay [-api <url>] [-profile <path>] <command> [flags]

Commands:
  signup      create an account and organization
  login       log in and remember the session
  logout      forget the session
  whoami      show the logged-in account
  metrics     show dashboard metrics
  clients     list clients; "clients add" creates one
  invoices    list invoices; "invoices add" creates one
  reminders   list reminders
  outbox      list sent reminder emails
`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is one invocation of the terminal client.
type app struct {
	api     *api.Client
	session session.Store
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("nudgepay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := fs.String("api", cfg.APIURL, "NudgePay API origin")
	profilePath := fs.String("profile", cfg.ProfilePath, "Path to the profile database")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("missing command")
	}

	// Without a profile every command still runs; authenticated ones report
	// the missing session.
	var store session.Store = session.Unavailable{}
	db, err := storage.NewDB(*profilePath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: profile unavailable: %v\n", err)
	} else {
		defer db.Close()
		store = session.NewProfile(db)
	}

	a := &app{
		api:     api.New(*apiURL, api.WithTimeout(cfg.APITimeout)),
		session: store,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "signup":
		return a.signup(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami(ctx)
	case "metrics":
		return a.metrics(ctx)
	case "clients":
		if len(rest) > 0 && rest[0] == "add" {
			return a.addClient(ctx, rest[1:])
		}
		return a.clients(ctx)
	case "invoices":
		if len(rest) > 0 && rest[0] == "add" {
			return a.addInvoice(ctx, rest[1:])
		}
		return a.invoices(ctx, rest)
	case "reminders":
		return a.reminders(ctx, rest)
	case "outbox":
		return a.outbox(ctx)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// token returns the stored session token or an error carrying loggedOut.
func (a *app) token(loggedOut string) (string, error) {
	token, ok := a.session.Get()
	if !ok {
		return "", errors.New(loggedOut)
	}
	return token, nil
}

func (a *app) promptPassword(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(a.stdout, "Password: ")
	password, err := readPassword(a.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(a.stdout)
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
