package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/study-room-reservation/internal/session"
)

// SessionRepo persists login sessions in the sessions table.  It satisfies
// session.Store and is used when Redis is not available.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Save inserts or replaces the session row.
func (r *SessionRepo) Save(ctx context.Context, rec session.Record) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE sid=?", rec.ID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (sid, user_id, expires_at, created_at) VALUES (?,?,?,?)",
		rec.ID, rec.UserID, rec.ExpiresAt.Unix(), stamp(time.Now()))
	return err
}

// Load returns the session if it exists and has not expired.
func (r *SessionRepo) Load(ctx context.Context, sid string) (session.Record, error) {
	var (
		rec session.Record
		exp int64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT sid, user_id, expires_at FROM sessions WHERE sid=? LIMIT 1", sid).
		Scan(&rec.ID, &rec.UserID, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Record{}, session.ErrNotFound
	}
	if err != nil {
		return session.Record{}, err
	}
	rec.ExpiresAt = time.Unix(exp, 0).UTC()
	if rec.Expired(time.Now()) {
		return session.Record{}, session.ErrNotFound
	}
	return rec, nil
}

// Delete removes the session.  Deleting an unknown sid is not an error.
func (r *SessionRepo) Delete(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE sid=?", sid)
	return err
}

// PruneExpired deletes sessions that expired before now and reports how
// many were removed.
func (r *SessionRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
