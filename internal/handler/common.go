// Package handler exposes the HTTP layer.  Handlers bind and validate
// request bodies, delegate to the service layer and translate sentinel
// errors into JSON error responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-theater-booking/internal/repository"
	"github.com/iliyamo/movie-theater-booking/internal/service"
)

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getUserRole extracts the role placed in the context by the JWT
// middleware.  Missing or non-string roles come back empty.
func getUserRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// paramID parses the named path parameter as a uint64 id.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// paramUint parses a raw query value as a uint64.
func paramUint(v string) (uint64, error) {
	return strconv.ParseUint(v, 10, 64)
}

// pageParams reads limit/offset query parameters, clamping limit to
// [1,100] with a default of 20.
func pageParams(c echo.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// jsonError maps a service or repository error onto an HTTP status and
// writes the usual {"error": ...} body.
func jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case errors.Is(err, repository.ErrTheaterNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
	case errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	case errors.Is(err, repository.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, repository.ErrSeatNotAvailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat not available"})
	case errors.Is(err, repository.ErrShowtimeOverlap):
		return c.JSON(http.StatusConflict, echo.Map{"error": "showtime overlaps an existing showtime"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrLockWait):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "scheduling busy, retry"})
	case errors.Is(err, service.ErrInvalidInterval):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
