package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
	"github.com/iliyamo/movie-theater-booking/internal/service"
)

// ShowtimeHandler exposes scheduling endpoints.  Writes go through
// the scheduler so the no-overlap rule holds; reads hit the
// repository directly.
type ShowtimeHandler struct {
	Scheduler *service.ShowtimeScheduler
	Showtimes *repository.ShowtimeRepo
}

func NewShowtimeHandler(scheduler *service.ShowtimeScheduler, showtimes *repository.ShowtimeRepo) *ShowtimeHandler {
	if scheduler == nil || showtimes == nil {
		panic("nil dependency passed to NewShowtimeHandler")
	}
	return &ShowtimeHandler{Scheduler: scheduler, Showtimes: showtimes}
}

type showtimeReq struct {
	MovieID        uint64    `json:"movie_id"`
	TheaterID      uint64    `json:"theater_id"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	BasePriceCents uint32    `json:"base_price_cents"`
}

type showtimeResp struct {
	ID             uint64    `json:"id"`
	MovieID        uint64    `json:"movie_id"`
	TheaterID      uint64    `json:"theater_id"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	BasePriceCents uint32    `json:"base_price_cents"`
}

func toShowtimeResp(s *model.Showtime) showtimeResp {
	return showtimeResp{
		ID:             s.ID,
		MovieID:        s.MovieID,
		TheaterID:      s.TheaterID,
		StartsAt:       s.StartsAt,
		EndsAt:         s.EndsAt,
		BasePriceCents: s.BasePriceCents,
	}
}

// Create schedules a showtime and seeds seat availability for every
// seat in the theater.  Overlapping the theater's existing schedule
// fails with 409.  Admin only.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.TheaterID == 0 || req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, theater_id, starts_at and ends_at required"})
	}

	s, err := h.Scheduler.Create(c.Request().Context(), service.ScheduleInput{
		MovieID:        req.MovieID,
		TheaterID:      req.TheaterID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, toShowtimeResp(s))
}

// Get returns one showtime by id.
func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toShowtimeResp(s))
}

// List returns a page of showtimes, optionally filtered by movie_id
// and theater_id query parameters.
func (h *ShowtimeHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	var movieID, theaterID uint64
	if v := c.QueryParam("movie_id"); v != "" {
		if n, err := paramUint(v); err == nil {
			movieID = n
		} else {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie_id"})
		}
	}
	if v := c.QueryParam("theater_id"); v != "" {
		if n, err := paramUint(v); err == nil {
			theaterID = n
		} else {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater_id"})
		}
	}

	showtimes, total, err := h.Showtimes.List(c.Request().Context(), movieID, theaterID, limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	out := make([]showtimeResp, 0, len(showtimes))
	for i := range showtimes {
		out = append(out, toShowtimeResp(&showtimes[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "total": total})
}

// Update reschedules a showtime.  The overlap check excludes the
// showtime itself; the theater cannot change.  Admin only.
func (h *ShowtimeHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, starts_at and ends_at required"})
	}

	s, err := h.Scheduler.Update(c.Request().Context(), id, service.ScheduleInput{
		MovieID:        req.MovieID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toShowtimeResp(s))
}

// Delete removes a showtime.  Rejected with 409 while live bookings
// exist.  Admin only.
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Scheduler.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
