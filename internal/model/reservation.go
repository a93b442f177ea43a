package model

import "time"

// DateLayout is the storage and wire form of a calendar date.
const DateLayout = "2006-01-02"

// Reservation books one room for one calendar date.  ReservationDate is
// always midnight UTC of the booked day; (RoomNumber, ReservationDate) is
// unique across the table.
type Reservation struct {
	ID              uint64    `json:"id"`
	StudentName     string    `json:"student_name"`
	RoomNumber      string    `json:"room_number"`
	ReservationDate time.Time `json:"reservation_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// NormalizeDate truncates t to the start of its calendar day as observed in
// loc and returns that day as midnight UTC.  A nil loc means UTC.
func NormalizeDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RoomStats is the public popularity view of a single room.
type RoomStats struct {
	RoomNumber        string      `json:"roomNumber"`
	TotalReservations int         `json:"totalReservations"`
	AbacusValue       int64       `json:"abacusValue"`
	ReservedDates     []time.Time `json:"reservedDates"`
}

// ReservationSummary backs the admin dashboard counters.
type ReservationSummary struct {
	Total       int `json:"total"`
	Last24h     int `json:"last24h"`
	ActiveRooms int `json:"activeRooms"`
	TotalRooms  int `json:"totalRooms"`
}
