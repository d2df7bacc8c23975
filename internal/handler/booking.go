package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle.  Customers operate on
// their own bookings; admins may act on any booking and list them
// all.
type BookingHandler struct {
	Orchestrator *service.BookingOrchestrator
}

func NewBookingHandler(orchestrator *service.BookingOrchestrator) *BookingHandler {
	if orchestrator == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Orchestrator: orchestrator}
}

type createBookingReq struct {
	ShowtimeID uint64 `json:"showtime_id"`
	SeatNumber string `json:"seat_number"`
}

type moveBookingReq struct {
	SeatNumber string `json:"seat_number"`
	ShowtimeID uint64 `json:"showtime_id"` // optional; 0 keeps the current showtime
}

type bookingResp struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	ShowtimeID uint64    `json:"showtime_id"`
	SeatID     uint64    `json:"seat_id"`
	PriceCents uint32    `json:"price_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:         b.ID,
		UserID:     b.UserID,
		ShowtimeID: b.ShowtimeID,
		SeatID:     b.SeatID,
		PriceCents: b.PriceCents,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
}

// Create books a seat for the authenticated user.  The booking starts
// as PENDING; a seat already held by a live booking fails with 409.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SeatNumber = strings.ToUpper(strings.TrimSpace(req.SeatNumber))
	if req.ShowtimeID == 0 || req.SeatNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id and seat_number required"})
	}

	b, err := h.Orchestrator.Create(c.Request().Context(), uid, req.ShowtimeID, req.SeatNumber)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Get returns one booking.  Customers see only their own.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Orchestrator.Get(c.Request().Context(), uid, getUserRole(c), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Price returns just the booking's total price in cents.
func (h *BookingHandler) Price(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	price, err := h.Orchestrator.TotalPrice(c.Request().Context(), uid, getUserRole(c), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "price_cents": price})
}

// ListMine returns a page of the authenticated user's bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, offset := pageParams(c)
	bookings, total, err := h.Orchestrator.ListForUser(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "total": total})
}

// ListAll returns a page over every booking.  Admin only; the role
// middleware guards the route.
func (h *BookingHandler) ListAll(c echo.Context) error {
	limit, offset := pageParams(c)
	bookings, total, err := h.Orchestrator.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "total": total})
}

// Move switches a PENDING booking to a different seat, and optionally
// to a different showtime.
func (h *BookingHandler) Move(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req moveBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SeatNumber = strings.ToUpper(strings.TrimSpace(req.SeatNumber))
	if req.SeatNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number required"})
	}

	b, err := h.Orchestrator.UpdateSeat(c.Request().Context(), uid, getUserRole(c), id, req.ShowtimeID, req.SeatNumber)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Confirm moves a PENDING booking to CONFIRMED.
func (h *BookingHandler) Confirm(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Orchestrator.Confirm(c.Request().Context(), uid, getUserRole(c), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Cancel moves a booking to CANCELLED and frees its seat.  Cancelling
// twice fails with 409.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Orchestrator.Cancel(c.Request().Context(), uid, getUserRole(c), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a booking record outright, releasing its seat if the
// booking was still live.  Admin only.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Orchestrator.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
