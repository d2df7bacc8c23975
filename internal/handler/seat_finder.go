package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-theater-booking/internal/service"
)

// SeatFinderHandler exposes the public available-seat query.
type SeatFinderHandler struct {
	Finder *service.AvailableSeatFinder
}

func NewSeatFinderHandler(finder *service.AvailableSeatFinder) *SeatFinderHandler {
	if finder == nil {
		panic("nil dependency passed to NewSeatFinderHandler")
	}
	return &SeatFinderHandler{Finder: finder}
}

type availableSeatResp struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	PriceCents uint32 `json:"price_cents"`
}

// ListAvailable returns the seats still bookable for a showtime.
// Optional query parameters narrow the result: row (seat number
// prefix, e.g. "A"), min_price_cents and max_price_cents.  The list
// is a snapshot; booking may still fail with 409 afterwards.
func (h *SeatFinderHandler) ListAvailable(c echo.Context) error {
	showtimeID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	filter := service.SeatFilter{
		RowPrefix: strings.ToUpper(strings.TrimSpace(c.QueryParam("row"))),
	}
	if v := c.QueryParam("min_price_cents"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price_cents"})
		}
		min := uint32(n)
		filter.MinPriceCents = &min
	}
	if v := c.QueryParam("max_price_cents"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price_cents"})
		}
		max := uint32(n)
		filter.MaxPriceCents = &max
	}

	seats, err := h.Finder.Find(c.Request().Context(), showtimeID, filter)
	if err != nil {
		return jsonError(c, err)
	}
	out := make([]availableSeatResp, 0, len(seats))
	for _, s := range seats {
		out = append(out, availableSeatResp{SeatID: s.SeatID, SeatNumber: s.SeatNumber, PriceCents: s.PriceCents})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
