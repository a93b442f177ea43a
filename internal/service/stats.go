package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

// StatsService reports per-room popularity and the admin summary.  The
// external counter is advisory: when it cannot be read the value shows as 0.
type StatsService struct {
	reservations ReservationStore
	rooms        RoomStore
	counter      CounterReader
	log          *zap.Logger
	now          func() time.Time
}

func NewStatsService(reservations ReservationStore, rooms RoomStore, counter CounterReader, log *zap.Logger) *StatsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsService{reservations: reservations, rooms: rooms, counter: counter, log: log, now: time.Now}
}

// RoomStats merges the ledger's view of a room with its counter value.
func (s *StatsService) RoomStats(ctx context.Context, roomNumber string) (model.RoomStats, error) {
	list, err := s.reservations.ListByRoom(ctx, roomNumber)
	if err != nil {
		return model.RoomStats{}, err
	}
	stats := model.RoomStats{
		RoomNumber:        roomNumber,
		TotalReservations: len(list),
		ReservedDates:     make([]time.Time, 0, len(list)),
	}
	for _, r := range list {
		stats.ReservedDates = append(stats.ReservedDates, r.ReservationDate)
	}

	if s.counter != nil {
		v, err := s.counter.Get(ctx, roomNumber)
		if err != nil {
			s.log.Warn("popularity read failed", zap.String("room", roomNumber), zap.Error(err))
		} else {
			stats.AbacusValue = v
		}
	}
	return stats, nil
}

// Summary returns the admin dashboard counters.
func (s *StatsService) Summary(ctx context.Context) (model.ReservationSummary, error) {
	total, recent, active, err := s.reservations.Counts(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		return model.ReservationSummary{}, err
	}
	rooms, err := s.rooms.Count(ctx)
	if err != nil {
		return model.ReservationSummary{}, err
	}
	return model.ReservationSummary{Total: total, Last24h: recent, ActiveRooms: active, TotalRooms: rooms}, nil
}
