// Package session keeps login sessions server-side.  The browser only holds
// a signed cookie naming the session; the record itself lives in a Store
// (Redis or the SQL sessions table).
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when the session does not exist or
// has expired.
var ErrNotFound = errors.New("session not found")

// Record is one login session.
type Record struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (r Record) Expired(now time.Time) bool { return !now.Before(r.ExpiresAt) }

// Store persists session records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}
