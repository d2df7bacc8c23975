package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

// TheaterHandler exposes venue and seat inventory endpoints.  Writes
// are admin only; reads are public so customers can inspect a theater
// before picking a showtime.
type TheaterHandler struct {
	Theaters *repository.TheaterRepo
	Seats    *repository.SeatRepo
}

func NewTheaterHandler(theaters *repository.TheaterRepo, seats *repository.SeatRepo) *TheaterHandler {
	if theaters == nil || seats == nil {
		panic("nil repository passed to NewTheaterHandler")
	}
	return &TheaterHandler{Theaters: theaters, Seats: seats}
}

type theaterReq struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	MaxSeats uint32 `json:"max_seats"`
}

type theaterResp struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	MaxSeats uint32 `json:"max_seats"`
}

type seatReq struct {
	SeatNumber string `json:"seat_number"`
}

type seatResp struct {
	ID         uint64 `json:"id"`
	SeatNumber string `json:"seat_number"`
}

func toTheaterResp(t *model.Theater) theaterResp {
	return theaterResp{ID: t.ID, Name: t.Name, Location: t.Location, MaxSeats: t.MaxSeats}
}

// Create registers a new theater.  Names are unique; a duplicate
// fails with 409.
func (h *TheaterHandler) Create(c echo.Context) error {
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.MaxSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_seats required"})
	}

	t := &model.Theater{Name: req.Name, Location: strings.TrimSpace(req.Location), MaxSeats: req.MaxSeats}
	if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "theater name already exists"})
		}
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, toTheaterResp(t))
}

// Get returns one theater by id.
func (h *TheaterHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Theaters.GetByID(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toTheaterResp(t))
}

// List returns every theater.
func (h *TheaterHandler) List(c echo.Context) error {
	theaters, err := h.Theaters.List(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	out := make([]theaterResp, 0, len(theaters))
	for i := range theaters {
		out = append(out, toTheaterResp(&theaters[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update replaces a theater's fields.  Admin only.
func (h *TheaterHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.MaxSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and max_seats required"})
	}

	t := &model.Theater{ID: id, Name: req.Name, Location: strings.TrimSpace(req.Location), MaxSeats: req.MaxSeats}
	if err := h.Theaters.Update(c.Request().Context(), t); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toTheaterResp(t))
}

// Delete removes a theater and its seats.  Rejected while showtimes
// reference it.  Admin only.
func (h *TheaterHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Theaters.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSeat registers one seat in a theater.  The seat number must be
// unique within the theater, and the theater's max_seats cap is
// enforced.  Admin only.
func (h *TheaterHandler) AddSeat(c echo.Context) error {
	theaterID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req seatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SeatNumber = strings.ToUpper(strings.TrimSpace(req.SeatNumber))
	if req.SeatNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number required"})
	}

	s := &model.Seat{TheaterID: theaterID, SeatNumber: req.SeatNumber}
	if err := h.Seats.Create(c.Request().Context(), s); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already exists or theater is full"})
		}
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, seatResp{ID: s.ID, SeatNumber: s.SeatNumber})
}

// ListSeats returns every seat of a theater, ordered by seat number.
func (h *TheaterHandler) ListSeats(c echo.Context) error {
	theaterID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Theaters.GetByID(c.Request().Context(), theaterID); err != nil {
		return jsonError(c, err)
	}
	seats, err := h.Seats.GetByTheater(c.Request().Context(), theaterID)
	if err != nil {
		return jsonError(c, err)
	}
	out := make([]seatResp, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatResp{ID: s.ID, SeatNumber: s.SeatNumber})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// DeleteSeat removes a seat.  Rejected while any showtime still
// offers the seat.  Admin only.
func (h *TheaterHandler) DeleteSeat(c echo.Context) error {
	seatID, err := paramID(c, "seat_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Seats.Delete(c.Request().Context(), seatID); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
