package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nudgepay/internal/logger"
	"nudgepay/internal/messages"
	"nudgepay/internal/models"
)

// AuthView is the data for the login and signup forms.
type AuthView struct {
	Signup  bool
	Email   string
	OrgName string
	Error   string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.authPage(w, r, AuthView{})
}

// SignupForm renders the signup page.
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.authPage(w, r, AuthView{Signup: true})
}

// Login exchanges the submitted credentials for a token and stores it.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	view := AuthView{}
	if err := r.ParseForm(); err != nil {
		view.Error = messages.AuthFailed
		h.authPage(w, r, view)
		return
	}
	view.Email = strings.TrimSpace(r.FormValue("email"))

	resp, err := h.api.Login(r.Context(), models.LoginRequest{
		Email:    view.Email,
		Password: r.FormValue("password"),
	})
	h.finishAuth(w, r, view, resp, err)
}

// Signup registers a new account and organization and stores the token.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	view := AuthView{Signup: true}
	if err := r.ParseForm(); err != nil {
		view.Error = messages.AuthFailed
		h.authPage(w, r, view)
		return
	}
	view.Email = strings.TrimSpace(r.FormValue("email"))
	view.OrgName = strings.TrimSpace(r.FormValue("org_name"))

	resp, err := h.api.Register(r.Context(), models.RegisterRequest{
		Email:    view.Email,
		Password: r.FormValue("password"),
		OrgName:  view.OrgName,
	})
	h.finishAuth(w, r, view, resp, err)
}

// Logout clears the stored token.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store(w, r).Clear(); err != nil {
		logger.WithTrace(r.Context(), h.log).Warn("failed to clear session", zap.Error(err))
	}
	redirect(w, r, "/login")
}

func (h *Handlers) finishAuth(w http.ResponseWriter, r *http.Request, view AuthView, resp *models.AuthResponse, err error) {
	if err == nil && resp.Token == "" {
		err = errors.New("auth response carried no token")
	}
	if err != nil {
		view.Error = h.failure(r, "auth", err, messages.AuthFailed)
		h.authPage(w, r, view)
		return
	}

	if err := h.store(w, r).Set(resp.Token); err != nil {
		view.Error = h.failure(r, "auth", err, messages.AuthFailed)
		h.authPage(w, r, view)
		return
	}
	redirect(w, r, "/dashboard")
}

func (h *Handlers) authPage(w http.ResponseWriter, r *http.Request, view AuthView) {
	page := Page{Title: "Log in", Data: view}
	if view.Signup {
		page.Title = "Sign up"
	}
	_, page.LoggedIn = h.token(w, r)
	h.render(w, r, "auth.html", page)
}
