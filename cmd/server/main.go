package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"nudgepay/internal/api"
	"nudgepay/internal/config"
	"nudgepay/internal/handlers"
	"nudgepay/internal/logger"
	"nudgepay/internal/middleware"
	"nudgepay/internal/session"
	"nudgepay/internal/tracing"
	"nudgepay/web"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// routerOptions carries the settings setupRouter needs beyond the handlers.
type routerOptions struct {
	CSRFKey        []byte
	SecureCookie   bool
	AuthRPS        float64
	AuthBurst      int
	Logger         *zap.Logger
	Metrics        http.Handler
	TracerProvider trace.TracerProvider
}

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	log, logErr := logger.New(cfg.Env)
	if logErr != nil {
		panic(logErr)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if envErr != nil {
		log.Debug("no .env file found, using environment variables")
	}
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	keys, err := cfg.DeriveKeys()
	if err != nil {
		log.Fatal("failed to derive session keys", zap.Error(err))
	}

	tp, err := tracing.NewProvider(tracing.Config{
		Enabled:          cfg.TracingEnabled,
		ServiceName:      "nudgepay-dashboard",
		ServiceVersion:   version,
		Environment:      cfg.Env,
		ExporterEndpoint: cfg.OTLPEndpoint,
		ExporterProtocol: cfg.OTLPProtocol,
		SamplingRatio:    cfg.TraceSampleRatio,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	apiMetrics := api.NewMetrics(prometheus.DefaultRegisterer)
	client := api.New(cfg.APIURL,
		api.WithHTTPClient(api.InstrumentedHTTPClient(&http.Client{}, apiMetrics)),
		api.WithTimeout(cfg.APITimeout),
	)
	cookies := session.NewCookies(keys.CookieHash, keys.CookieBlock, cfg.SecureCookie)
	h := handlers.NewHandlers(client, cookies, web.Templates(), log)

	router := setupRouter(h, web.Static(), routerOptions{
		CSRFKey:      keys.CSRF,
		SecureCookie: cfg.SecureCookie,
		AuthRPS:      cfg.AuthRPS,
		AuthBurst:    cfg.AuthBurst,
		Logger:       log,
		Metrics:      promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env), zap.String("api_url", client.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced shutdown", zap.Error(err))
	}
	if tp != nil {
		log.Info("shutting down tracer provider")
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("tracer provider shutdown failed", zap.Error(err))
		}
	}
	log.Info("server stopped")
}

func setupRouter(h *handlers.Handlers, static fs.FS, opts routerOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing(opts.TracerProvider))
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", h.Healthz)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(csrfProtect(opts.CSRFKey, opts.SecureCookie, opts.Logger))

		r.Get("/", h.Home)
		r.Get("/login", h.LoginForm)
		r.Get("/signup", h.SignupForm)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.AuthRPS, opts.AuthBurst))
			r.Post("/login", h.Login)
			r.Post("/signup", h.Signup)
		})

		r.Get("/dashboard", h.Dashboard)
		r.Get("/dashboard/panel", h.DashboardPanel)

		r.Get("/clients", h.Clients)
		r.Get("/clients/panel", h.ClientsPanelFragment)
		r.Post("/clients", h.CreateClient)
		r.Get("/clients/{id}", h.ClientDetail)
		r.Get("/clients/{id}/panel", h.ClientDetailPanel)

		r.Get("/invoices", h.Invoices)
		r.Get("/invoices/panel", h.InvoicesPanelFragment)
		r.Post("/invoices", h.CreateInvoice)
		r.Get("/invoices/{id}", h.InvoiceDetail)
		r.Get("/invoices/{id}/panel", h.InvoiceDetailPanel)

		r.Get("/reminders", h.Reminders)
		r.Get("/reminders/panel", h.RemindersPanelFragment)
	})

	return r
}

// csrfProtect wraps gorilla/csrf. Over plain HTTP the request is marked as
// such so the origin check does not demand TLS.
func csrfProtect(key []byte, secure bool, log *zap.Logger) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
			http.Error(w, "Your form expired. Reload the page and try again.", http.StatusForbidden)
		})),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
