// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// ReservationCreatedEvent is published after a reservation is stored.  It
// carries enough for consumers to bump the popularity counter and write the
// booking log without querying the database.
type ReservationCreatedEvent struct {
	ReservationID   uint64 `json:"reservation_id"`
	StudentName     string `json:"student_name"`
	RoomNumber      string `json:"room_number"`
	ReservationDate string `json:"reservation_date"`
	CreatedAt       string `json:"created_at"`
}

// NewReservationCreatedEvent builds the event for res.
func NewReservationCreatedEvent(res model.Reservation) ReservationCreatedEvent {
	return ReservationCreatedEvent{
		ReservationID:   res.ID,
		StudentName:     res.StudentName,
		RoomNumber:      res.RoomNumber,
		ReservationDate: res.ReservationDate.Format(model.DateLayout),
		CreatedAt:       res.CreatedAt.UTC().Format(time.RFC3339),
	}
}
