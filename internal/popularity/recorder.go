package popularity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// Hitter increments a room's counter.
type Hitter interface {
	Hit(ctx context.Context, roomNumber string) error
}

// DirectRecorder sends the hit from a background goroutine so the booking
// response never waits on the counter.
type DirectRecorder struct {
	hitter  Hitter
	timeout time.Duration
	log     *zap.Logger
	after   func(roomNumber string)
}

func NewDirectRecorder(h Hitter, timeout time.Duration, log *zap.Logger) *DirectRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DirectRecorder{hitter: h, timeout: timeout, log: log}
}

// OnHit registers fn to run after each successful hit.
func (r *DirectRecorder) OnHit(fn func(roomNumber string)) { r.after = fn }

// RecordReservation schedules the hit for the reserved room and returns
// immediately.
func (r *DirectRecorder) RecordReservation(res model.Reservation) {
	go func() {
		_ = r.HitNow(context.Background(), res.RoomNumber)
	}()
}

// HitNow performs the hit synchronously, logging rather than returning
// counter failures to the booking path.
func (r *DirectRecorder) HitNow(ctx context.Context, roomNumber string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.hitter.Hit(ctx, roomNumber); err != nil {
		r.log.Warn("popularity hit failed", zap.String("room", roomNumber), zap.Error(err))
		return err
	}
	if r.after != nil {
		r.after(roomNumber)
	}
	return nil
}
