package service

import (
	"context"
	"time"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// ReservationStore is the reservation ledger.  Create must report a taken
// (room, date) slot as repository.ErrConflict; lookups and deletes of
// missing rows report repository.ErrNotFound.
type ReservationStore interface {
	Create(ctx context.Context, studentName, roomNumber string, date time.Time) (*model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	GetByRoomAndDate(ctx context.Context, roomNumber string, date time.Time) (*model.Reservation, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
	ListByRoom(ctx context.Context, roomNumber string) ([]model.Reservation, error)
	Delete(ctx context.Context, id uint64) error
	Counts(ctx context.Context, since time.Time) (total, recent, rooms int, err error)
}

// RoomStore is the room directory.
type RoomStore interface {
	List(ctx context.Context) ([]model.Room, error)
	Get(ctx context.Context, roomNumber string) (*model.Room, error)
	Exists(ctx context.Context, roomNumber string) (bool, error)
	Create(ctx context.Context, room model.Room) (*model.Room, error)
	Update(ctx context.Context, roomNumber string, upd model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, roomNumber string) error
	Count(ctx context.Context) (int, error)
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, role model.Role) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// HitRecorder reports a new reservation to the popularity counter.  It must
// not block and must not fail the booking.
type HitRecorder interface {
	RecordReservation(res model.Reservation)
}

// CounterReader reads a room's popularity counter.
type CounterReader interface {
	Get(ctx context.Context, roomNumber string) (int64, error)
}
