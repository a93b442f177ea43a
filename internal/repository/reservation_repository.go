package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// ReservationRepo is the reservation ledger.  The reservations table holds a
// unique key on (room_number, reservation_date); Create surfaces a violation
// of it as ErrConflict, which makes the insert itself the final arbiter when
// two bookings for the same slot race.  Dates are written as YYYY-MM-DD and
// instants in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id, student_name, room_number, reservation_date, created_at"

// Create inserts a reservation for the normalized date and returns the
// stored record.
func (r *ReservationRepo) Create(ctx context.Context, studentName, roomNumber string, date time.Time) (*model.Reservation, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reservations (student_name, room_number, reservation_date, created_at) VALUES (?, ?, ?, ?)",
		studentName, roomNumber, dateValue(date), stamp(now))
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Reservation{
		ID:              uint64(id),
		StudentName:     studentName,
		RoomNumber:      roomNumber,
		ReservationDate: dateOnly(date.UTC()),
		CreatedAt:       now.Truncate(time.Microsecond),
	}, nil
}

// GetByID returns the reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// GetByRoomAndDate returns the reservation holding the slot, or ErrNotFound
// when the room is free on that date.
func (r *ReservationRepo) GetByRoomAndDate(ctx context.Context, roomNumber string, date time.Time) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE room_number = ? AND reservation_date = ? LIMIT 1",
		roomNumber, dateValue(date))
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return r.list(ctx,
		"SELECT "+reservationColumns+" FROM reservations ORDER BY created_at DESC, id DESC")
}

// ListByRoom returns the reservations of one room ordered by date.
func (r *ReservationRepo) ListByRoom(ctx context.Context, roomNumber string) ([]model.Reservation, error) {
	return r.list(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE room_number = ? ORDER BY reservation_date ASC, id ASC",
		roomNumber)
}

// Delete removes a reservation by id; a missing id yields ErrNotFound.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
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

// Counts returns the total number of reservations, how many were created at
// or after since, and how many distinct rooms carry at least one.
func (r *ReservationRepo) Counts(ctx context.Context, since time.Time) (total, recent, rooms int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
		        COUNT(DISTINCT room_number)
		 FROM reservations`, stamp(since)).Scan(&total, &recent, &rooms)
	return total, recent, rooms, err
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	if err := s.Scan(&res.ID, &res.StudentName, &res.RoomNumber,
		timeScanner{&res.ReservationDate}, timeScanner{&res.CreatedAt}); err != nil {
		return nil, err
	}
	res.ReservationDate = dateOnly(res.ReservationDate)
	return &res, nil
}
