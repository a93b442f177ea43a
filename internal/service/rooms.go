package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/study-room-reservation/internal/model"
	"github.com/iliyamo/study-room-reservation/internal/repository"
	"github.com/iliyamo/study-room-reservation/internal/validation"
)

// RoomService manages the room directory.
type RoomService struct {
	rooms RoomStore
}

func NewRoomService(rooms RoomStore) *RoomService { return &RoomService{rooms: rooms} }

// List returns all rooms ordered by level, then room number, as strings.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	return s.rooms.List(ctx)
}

// Create adds a room.  An absent or empty level becomes "1" and an empty
// name is stored as null.
func (s *RoomService) Create(ctx context.Context, p validation.Payload) (*model.Room, error) {
	if err := fromResult(validation.Room(p)); err != nil {
		return nil, err
	}
	room := model.Room{
		RoomNumber: strings.TrimSpace(validation.String(p, "roomNumber")),
		Level:      validation.String(p, "level"),
	}
	if room.Level == "" {
		room.Level = model.DefaultLevel
	}
	if name := validation.String(p, "name"); name != "" {
		room.Name = &name
	}

	created, err := s.rooms.Create(ctx, room)
	if errors.Is(err, repository.ErrConflict) {
		return nil, &ConflictError{Message: "Room " + room.RoomNumber + " already exists"}
	}
	return created, err
}

// Update changes the level and/or name of an existing room.  Fields absent
// from the payload keep their stored value.
func (s *RoomService) Update(ctx context.Context, roomNumber string, p validation.Payload) (*model.Room, error) {
	if err := fromResult(validation.RoomUpdate(p)); err != nil {
		return nil, err
	}
	upd := model.RoomUpdate{
		Level: validation.OptionalString(p, "level"),
		Name:  validation.OptionalString(p, "name"),
	}
	room, err := s.rooms.Update(ctx, roomNumber, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Room not found"}
	}
	return room, err
}

// Delete removes a room.  Reservations referencing it are kept.
func (s *RoomService) Delete(ctx context.Context, roomNumber string) error {
	err := s.rooms.Delete(ctx, roomNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: "Room not found"}
	}
	return err
}
