package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// RoomRepo is the room directory.  Room numbers are caller-assigned primary
// keys and are never rewritten once created.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = "room_number, name, level, created_at"

// List returns every room ordered by level and then room number, both
// compared as plain strings.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomColumns+" FROM rooms ORDER BY level ASC, room_number ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

// Get returns a single room or ErrNotFound.
func (r *RoomRepo) Get(ctx context.Context, roomNumber string) (*model.Room, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE room_number = ?", roomNumber)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return room, err
}

// Exists reports whether roomNumber is in the directory.
func (r *RoomRepo) Exists(ctx context.Context, roomNumber string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM rooms WHERE room_number = ? LIMIT 1", roomNumber).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Create inserts room.  A duplicate room number yields ErrConflict.
func (r *RoomRepo) Create(ctx context.Context, room model.Room) (*model.Room, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (room_number, name, level, created_at) VALUES (?, ?, ?, ?)",
		room.RoomNumber, room.Name, room.Level, stamp(now))
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	room.CreatedAt = now.Truncate(time.Microsecond)
	return &room, nil
}

// Update applies the non-nil fields of upd and returns the stored row.
func (r *RoomRepo) Update(ctx context.Context, roomNumber string, upd model.RoomUpdate) (*model.Room, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET level = COALESCE(?, level), name = COALESCE(?, name) WHERE room_number = ?",
		upd.Level, upd.Name, roomNumber)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, roomNumber)
}

// Delete removes the room.  Reservations that reference it are left alone.
func (r *RoomRepo) Delete(ctx context.Context, roomNumber string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE room_number = ?", roomNumber)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rooms in the directory.
func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (*model.Room, error) {
	var (
		room model.Room
		name sql.NullString
	)
	if err := s.Scan(&room.RoomNumber, &name, &room.Level, timeScanner{&room.CreatedAt}); err != nil {
		return nil, err
	}
	if name.Valid {
		n := name.String
		room.Name = &n
	}
	return &room, nil
}
