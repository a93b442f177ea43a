package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/model"
	"github.com/iliyamo/study-room-reservation/internal/repository"
	"github.com/iliyamo/study-room-reservation/internal/validation"
)

// conflictDateLayout renders dates in conflict messages, e.g. "March 15, 2024".
const conflictDateLayout = "January 2, 2006"

// BookingOptions tunes the booking protocol.
type BookingOptions struct {
	// Location is the zone in which an instant is read as a calendar date.
	Location *time.Location
	// RequireRoom rejects reservations for rooms missing from the directory.
	RequireRoom bool
	// Now overrides the clock; used for "today" when no date is given.
	Now func() time.Time
}

// BookingService runs the booking protocol: validate, normalize the date,
// check the slot, insert, then report the hit.  The unique (room, date) key
// in the store is what finally decides a race between two bookings; the
// read-side check only produces the friendly message early.
type BookingService struct {
	reservations ReservationStore
	rooms        RoomStore
	hits         HitRecorder
	opts         BookingOptions
	log          *zap.Logger
}

func NewBookingService(reservations ReservationStore, rooms RoomStore, hits HitRecorder, opts BookingOptions, log *zap.Logger) *BookingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{reservations: reservations, rooms: rooms, hits: hits, opts: opts, log: log}
}

// Reserve books roomNumber for the payload's date on behalf of studentName.
func (s *BookingService) Reserve(ctx context.Context, p validation.Payload) (*model.Reservation, error) {
	if err := fromResult(validation.Reservation(p)); err != nil {
		return nil, err
	}
	studentName := strings.TrimSpace(validation.String(p, "studentName"))
	roomNumber := strings.TrimSpace(validation.String(p, "roomNumber"))

	date, err := s.reservationDate(p["reservationDate"])
	if err != nil {
		return nil, err
	}

	if s.opts.RequireRoom {
		ok, err := s.rooms.Exists(ctx, roomNumber)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ValidationError{Field: "roomNumber", Message: "Room does not exist"}
		}
	}

	_, err = s.reservations.GetByRoomAndDate(ctx, roomNumber, date)
	switch {
	case err == nil:
		return nil, alreadyReserved(roomNumber, date)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	res, err := s.reservations.Create(ctx, studentName, roomNumber, date)
	if errors.Is(err, repository.ErrConflict) {
		// Lost the race after the check: same answer as the check.
		return nil, alreadyReserved(roomNumber, date)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("reservation created",
		zap.Uint64("id", res.ID),
		zap.String("room", res.RoomNumber),
		zap.String("date", res.ReservationDate.Format(model.DateLayout)))
	if s.hits != nil {
		s.hits.RecordReservation(*res)
	}
	return res, nil
}

// Cancel deletes a reservation by id.
func (s *BookingService) Cancel(ctx context.Context, id uint64) error {
	err := s.reservations.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: "Reservation not found"}
	}
	return err
}

// List returns every reservation, newest first.
func (s *BookingService) List(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.ListAll(ctx)
}

// reservationDate accepts a YYYY-MM-DD date or an RFC 3339 instant and
// returns the booked day as midnight UTC.  A missing value means today.
func (s *BookingService) reservationDate(raw any) (time.Time, error) {
	invalid := &ValidationError{Field: "reservationDate", Message: "Invalid reservation date"}
	if raw == nil {
		return model.NormalizeDate(s.opts.Now(), s.opts.Location), nil
	}
	str, ok := raw.(string)
	if !ok {
		return time.Time{}, invalid
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return model.NormalizeDate(s.opts.Now(), s.opts.Location), nil
	}
	if d, err := time.Parse(model.DateLayout, str); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return model.NormalizeDate(t, s.opts.Location), nil
	}
	return time.Time{}, invalid
}

func alreadyReserved(roomNumber string, date time.Time) error {
	return &ConflictError{Message: fmt.Sprintf("Room %s is already reserved for %s.",
		roomNumber, date.Format(conflictDateLayout))}
}
