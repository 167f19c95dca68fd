package session

import "nudgepay/internal/storage"

// Profile keeps the token in a local profile database, for terminal use.
type Profile struct {
	db *storage.DB
}

// NewProfile creates a Store backed by db. A nil db behaves like Unavailable.
func NewProfile(db *storage.DB) *Profile {
	return &Profile{db: db}
}

func (p *Profile) Get() (string, bool) {
	if p == nil || p.db == nil {
		return "", false
	}
	token, ok, err := p.db.Get(Key)
	if err != nil || !ok || token == "" {
		return "", false
	}
	return token, true
}

func (p *Profile) Set(token string) error {
	if p == nil || p.db == nil {
		return ErrUnavailable
	}
	return p.db.Put(Key, token)
}

func (p *Profile) Clear() error {
	if p == nil || p.db == nil {
		return ErrUnavailable
	}
	return p.db.Delete(Key)
}
