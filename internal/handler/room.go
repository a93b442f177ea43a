package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-room-reservation/internal/service"
)

// RoomHandler serves the room directory.
type RoomHandler struct {
	Rooms *service.RoomService
}

func NewRoomHandler(r *service.RoomService) *RoomHandler { return &RoomHandler{Rooms: r} }

// List returns all rooms.  GET /api/rooms
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rooms)
}

// Create adds a room.  POST /api/rooms (admin)
func (h *RoomHandler) Create(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	room, err := h.Rooms.Create(ctx, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// Update changes level and/or name.  PUT /api/rooms/:roomNumber (admin)
func (h *RoomHandler) Update(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	room, err := h.Rooms.Update(ctx, c.Param("roomNumber"), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Delete removes a room.  DELETE /api/rooms/:roomNumber (admin)
func (h *RoomHandler) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Rooms.Delete(ctx, c.Param("roomNumber")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
