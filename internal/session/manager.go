// Package session keeps per-browser state on the server: the bearer token,
// one-shot flash messages, and the sign-up form awaiting OTP confirmation.
// The browser only ever holds opaque ids in cookies.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diagnosis/visitor-portal/internal/domain"
	"github.com/diagnosis/visitor-portal/pkg/auth"
	"github.com/google/uuid"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a notification shown once on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// stored is set once the session exists in the store.
	stored bool
}

func (s *Session) Authenticated() bool {
	return s.Token != ""
}

func (s *Session) AddFlash(kind FlashKind, msg string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: msg})
}

// PopFlashes returns and clears pending flashes. The caller must Save the
// session for the removal to stick.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

type Options struct {
	// TTL bounds how long a login lasts; it is shortened to the bearer
	// token's expiry when that is readable.
	TTL time.Duration
	// SignUpTTL bounds how long a pending sign-up is kept server-side.
	SignUpTTL time.Duration
	// RememberTTL is the lifetime of the remembered-email cookie.
	RememberTTL time.Duration
	Secure      bool
	// CookiePrefix namespaces the cookie names.
	CookiePrefix string
}

type Manager struct {
	store Store
	opts  Options
	now   func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookiePrefix == "" {
		opts.CookiePrefix = "portal"
	}
	return &Manager{store: store, opts: opts, now: time.Now}
}

func (m *Manager) sessionCookie() string  { return m.opts.CookiePrefix + "_session" }
func (m *Manager) signUpCookie() string   { return m.opts.CookiePrefix + "_signup" }
func (m *Manager) rememberCookie() string { return m.opts.CookiePrefix + "_email" }

func sessionKey(id string) string { return "session:" + id }
func signUpKey(id string) string  { return "signup:" + id }

// Load returns the request's session, or a new unsaved one when the browser
// has none or it expired. An error means the store could not be read.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	fresh := &Session{ID: uuid.NewString(), CreatedAt: m.now()}

	c, err := r.Cookie(m.sessionCookie())
	if err != nil || c.Value == "" {
		return fresh, nil
	}

	raw, err := m.store.Get(r.Context(), sessionKey(c.Value))
	if errors.Is(err, ErrNotFound) {
		return fresh, nil
	}
	if err != nil {
		return fresh, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return fresh, nil
	}
	if s.ID != c.Value {
		return fresh, nil
	}
	s.stored = true
	return &s, nil
}

// ttl is how long the session should live from now.
func (m *Manager) ttl(s *Session) time.Duration {
	ttl := m.opts.TTL
	if s.Token == "" {
		return ttl
	}
	claims, err := auth.Inspect(s.Token)
	if err != nil {
		return ttl
	}
	now := m.now()
	if claims.Expired(now) {
		return 0
	}
	if exp, ok := claims.Expiry(); ok && exp.Sub(now) < ttl {
		ttl = exp.Sub(now)
	}
	return ttl
}

// Save persists s and (re)sets the session cookie. The cookie is persistent
// so the login survives browser restarts. A session that was never stored
// and holds neither a token nor flashes is not written, so anonymous page
// views leave nothing behind.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	ttl := m.ttl(s)
	if ttl <= 0 {
		// The token already expired; keep the session for flashes only.
		s.Token = ""
		ttl = m.opts.TTL
	}
	if !s.stored && s.Token == "" && len(s.Flashes) == 0 {
		return nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, sessionKey(s.ID), raw, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.stored = true

	http.SetCookie(w, &http.Cookie{
		Name:     m.sessionCookie(),
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.opts.Secure,
		Expires:  m.now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
	return nil
}

// Renew moves s to a fresh id, dropping the stored copy under the old one.
// Call it when the user's privilege changes, before Save.
func (m *Manager) Renew(ctx context.Context, s *Session) error {
	old := s.ID
	s.ID = uuid.NewString()
	if err := m.store.Delete(ctx, sessionKey(old)); err != nil {
		return fmt.Errorf("drop old session: %w", err)
	}
	return nil
}

// StashSignUp keeps p server-side until the OTP is confirmed. The browser
// gets a session cookie (no expiry) naming it, so the record outlives a
// reload but not the browsing session.
func (m *Manager) StashSignUp(ctx context.Context, w http.ResponseWriter, p domain.PendingSignUp) error {
	id := uuid.NewString()
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending sign-up: %w", err)
	}
	if err := m.store.Set(ctx, signUpKey(id), raw, m.opts.SignUpTTL); err != nil {
		return fmt.Errorf("save pending sign-up: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.signUpCookie(),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.opts.Secure,
	})
	return nil
}

// PendingSignUp returns the stashed sign-up, or nil when there is none.
func (m *Manager) PendingSignUp(r *http.Request) (*domain.PendingSignUp, error) {
	c, err := r.Cookie(m.signUpCookie())
	if err != nil || c.Value == "" {
		return nil, nil
	}
	raw, err := m.store.Get(r.Context(), signUpKey(c.Value))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pending sign-up: %w", err)
	}

	var p domain.PendingSignUp
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

// ClearSignUp discards the stashed sign-up and its cookie.
func (m *Manager) ClearSignUp(w http.ResponseWriter, r *http.Request) error {
	m.expireCookie(w, m.signUpCookie())

	c, err := r.Cookie(m.signUpCookie())
	if err != nil || c.Value == "" {
		return nil
	}
	if err := m.store.Delete(r.Context(), signUpKey(c.Value)); err != nil {
		return fmt.Errorf("delete pending sign-up: %w", err)
	}
	return nil
}

// RememberEmail stores email in a long-lived cookie for pre-filling the login
// form.
func (m *Manager) RememberEmail(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.rememberCookie(),
		Value:    email,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.opts.Secure,
		Expires:  m.now().Add(m.opts.RememberTTL),
		MaxAge:   int(m.opts.RememberTTL.Seconds()),
	})
}

func (m *Manager) RememberedEmail(r *http.Request) string {
	c, err := r.Cookie(m.rememberCookie())
	if err != nil {
		return ""
	}
	return c.Value
}

func (m *Manager) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.opts.Secure,
		MaxAge:   -1,
	})
}
