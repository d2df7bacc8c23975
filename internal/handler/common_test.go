package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-theater-booking/internal/repository"
	"github.com/iliyamo/movie-theater-booking/internal/service"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestJSONErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrMovieNotFound, http.StatusNotFound},
		{repository.ErrShowtimeNotFound, http.StatusNotFound},
		{repository.ErrBookingNotFound, http.StatusNotFound},
		{repository.ErrSeatNotAvailable, http.StatusConflict},
		{repository.ErrShowtimeOverlap, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{repository.ErrForbidden, http.StatusForbidden},
		{repository.ErrLockWait, http.StatusServiceUnavailable},
		{service.ErrInvalidInterval, http.StatusBadRequest},
		{fmt.Errorf("book seat: %w", repository.ErrSeatNotAvailable), http.StatusConflict},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t, "/")
		require.NoError(t, jsonError(c, tc.err))
		assert.Equal(t, tc.want, rec.Code, "error %v", tc.err)
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=500", 100, 0},
		{"?limit=0&offset=-3", 20, 0},
		{"?limit=abc", 20, 0},
	}
	for _, tc := range cases {
		c, _ := newTestContext(t, "/"+tc.query)
		limit, offset := pageParams(c)
		assert.Equal(t, tc.wantLimit, limit, "query %q", tc.query)
		assert.Equal(t, tc.wantOffset, offset, "query %q", tc.query)
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t, "/")
	c.Set("user_id", float64(9))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)

	c, _ = newTestContext(t, "/")
	c.Set("user_id", "42")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c, _ = newTestContext(t, "/")
	_, err = getUserID(c)
	assert.Error(t, err)
}
