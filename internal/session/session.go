// Package session holds the bearer token that authenticates API calls.
//
// A Store is a plain key/value slot: the token is stored and returned
// verbatim, never validated or decoded. Callers receive a Store explicitly
// and read it once per render.
package session

import "errors"

// Key is the single storage key holding the bearer token.
const Key = "nudgepay_token"

// ErrUnavailable is returned by Set and Clear when no storage backs the store.
var ErrUnavailable = errors.New("session storage unavailable")

// Store gets, sets and clears the bearer token.
type Store interface {
	// Get returns the token and true, or "" and false when no token is
	// stored or the storage cannot be read. It never fails.
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// Unavailable is a Store for contexts with no client-side storage.
type Unavailable struct{}

func (Unavailable) Get() (string, bool) { return "", false }

func (Unavailable) Set(string) error { return ErrUnavailable }

func (Unavailable) Clear() error { return ErrUnavailable }
