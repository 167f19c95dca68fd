package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the browser cookie holding the session.
	CookieName = "nudgepay"
	// Duration is how long the browser keeps the cookie (30 days).
	Duration = 30 * 24 * time.Hour
)

// Cookies keeps the token in a signed and encrypted browser cookie.
type Cookies struct {
	store *sessions.CookieStore
}

// NewCookies creates a cookie-backed session factory. hashKey authenticates
// the cookie (32 or 64 bytes), blockKey encrypts it (16, 24 or 32 bytes).
func NewCookies(hashKey, blockKey []byte, secure bool) *Cookies {
	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(Duration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)
	return &Cookies{store: store}
}

// For returns the Store bound to one browser request. Without a request or
// response writer there is no cookie jar to use and Unavailable is returned.
func (c *Cookies) For(w http.ResponseWriter, r *http.Request) Store {
	if c == nil || w == nil || r == nil {
		return Unavailable{}
	}
	return &cookieStore{store: c.store, w: w, r: r}
}

type cookieStore struct {
	store *sessions.CookieStore
	w     http.ResponseWriter
	r     *http.Request
}

func (s *cookieStore) Get() (string, bool) {
	// A cookie that fails to decode (rotated keys, tampering) yields a fresh
	// session with no values, which reads as absent.
	sess, _ := s.store.Get(s.r, CookieName)
	if sess == nil {
		return "", false
	}
	token, ok := sess.Values[Key].(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (s *cookieStore) Set(token string) error {
	sess, err := s.store.Get(s.r, CookieName)
	if sess == nil {
		return err
	}
	sess.Options.MaxAge = int(Duration.Seconds())
	sess.Values[Key] = token
	return sess.Save(s.r, s.w)
}

func (s *cookieStore) Clear() error {
	sess, err := s.store.Get(s.r, CookieName)
	if sess == nil {
		return err
	}
	delete(sess.Values, Key)
	sess.Options.MaxAge = -1
	return sess.Save(s.r, s.w)
}
