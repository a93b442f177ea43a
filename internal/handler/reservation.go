package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-room-reservation/internal/service"
)

// ReservationHandler serves the booking and reservation endpoints.
type ReservationHandler struct {
	Booking *service.BookingService
	Stats   *service.StatsService
}

func NewReservationHandler(b *service.BookingService, s *service.StatsService) *ReservationHandler {
	return &ReservationHandler{Booking: b, Stats: s}
}

// Create books a room for a date.  POST /api/reserve
func (h *ReservationHandler) Create(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Booking.Reserve(ctx, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Delete cancels a reservation.  DELETE /api/reserve/:id (admin)
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Reservation not found"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Booking.Cancel(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns all reservations, newest first.  GET /api/reservations (admin)
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Booking.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Summary returns the dashboard counters.  GET /api/reservations/summary (admin)
func (h *ReservationHandler) Summary(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	sum, err := h.Stats.Summary(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

// RoomStats returns popularity figures.  GET /api/rooms/:roomNumber/stats
func (h *ReservationHandler) RoomStats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.Stats.RoomStats(ctx, c.Param("roomNumber"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
