package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/study-room-reservation/internal/utils"
)

// Options configures a Manager.
type Options struct {
	Secret     string        // HS256 key for the cookie value
	CookieName string        // defaults to "study.sid"
	TTL        time.Duration // session lifetime
	Secure     bool          // set the Secure cookie attribute
}

// Manager issues, resolves and ends sessions.  The cookie value is a signed
// token whose jti is the session id, so a forged or altered cookie is
// rejected before the store is consulted.
type Manager struct {
	store Store
	opts  Options
	now   func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "study.sid"
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &Manager{store: store, opts: opts, now: time.Now}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string { return m.opts.CookieName }

// Start creates a session for userID and writes the cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, userID uint64) (Record, error) {
	rec := Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: m.now().UTC().Add(m.opts.TTL).Truncate(time.Second),
	}
	tok, err := utils.NewSessionToken(m.opts.Secret, rec.ID, rec.ExpiresAt)
	if err != nil {
		return Record{}, err
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return Record{}, err
	}
	http.SetCookie(w, m.cookie(tok.Token, rec.ExpiresAt))
	return rec, nil
}

// Lookup resolves the session named by the request cookie.  A missing,
// invalid or expired cookie yields ErrNotFound; other errors come from the
// store.
func (m *Manager) Lookup(ctx context.Context, r *http.Request) (Record, error) {
	ck, err := r.Cookie(m.opts.CookieName)
	if err != nil || ck.Value == "" {
		return Record{}, ErrNotFound
	}
	sid, err := utils.ParseSessionToken(m.opts.Secret, ck.Value)
	if err != nil {
		return Record{}, ErrNotFound
	}
	rec, err := m.store.Load(ctx, sid)
	if err != nil {
		return Record{}, err
	}
	if rec.Expired(m.now()) {
		_ = m.store.Delete(ctx, sid)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// End destroys the current session, if any, and clears the cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer http.SetCookie(w, m.cookie("", time.Unix(0, 0)))
	rec, err := m.Lookup(ctx, r)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, rec.ID)
}

func (m *Manager) cookie(value string, exp time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
	}
	return ck
}
