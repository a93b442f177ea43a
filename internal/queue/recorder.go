package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// EventPublisher publishes booking events.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, event ReservationCreatedEvent) error
}

// Fallback records a reservation some other way, typically a direct hit.
type Fallback interface {
	RecordReservation(res model.Reservation)
}

// Recorder hands reservations to the broker; the consumer then performs the
// popularity hit.  When publishing fails the reservation goes to fallback so
// the hit is still attempted.
type Recorder struct {
	pub      EventPublisher
	fallback Fallback
	timeout  time.Duration
	log      *zap.Logger
}

func NewRecorder(pub EventPublisher, fallback Fallback, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{pub: pub, fallback: fallback, timeout: 5 * time.Second, log: log}
}

// RecordReservation publishes in the background and returns immediately.
func (r *Recorder) RecordReservation(res model.Reservation) {
	go r.publish(res)
}

func (r *Recorder) publish(res model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.pub.PublishReservationCreated(ctx, NewReservationCreatedEvent(res)); err != nil {
		r.log.Warn("booking event not published; hitting counter directly",
			zap.Uint64("reservation_id", res.ID), zap.Error(err))
		if r.fallback != nil {
			r.fallback.RecordReservation(res)
		}
	}
}
