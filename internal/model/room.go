package model

import "time"

// DefaultLevel is the floor assigned to rooms created without one.
const DefaultLevel = "1"

// Room is a bookable study room.  RoomNumber is caller-assigned and acts
// as the primary key; Level and RoomNumber are compared as plain strings
// when the directory is listed.
type Room struct {
	RoomNumber string    `json:"room_number"`
	Name       *string   `json:"name"`
	Level      string    `json:"level"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoomUpdate carries a partial update; nil fields keep their stored value.
type RoomUpdate struct {
	Level *string
	Name  *string
}
