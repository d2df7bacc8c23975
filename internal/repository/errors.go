// Package repository contains the data access layer.  This file defines
// sentinel errors shared across repositories so that handlers and
// services can distinguish failure scenarios with errors.Is.  Not-found
// sentinels carry the entity name so a caller can tell "seat just
// taken" apart from "showtime doesn't exist".
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrMovieNotFound indicates a movie id that has no row.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheaterNotFound indicates a theater id that has no row.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrSeatNotFound indicates a seat that does not exist in the theater.
var ErrSeatNotFound = errors.New("seat not found")

// ErrShowtimeNotFound indicates a showtime id that has no row.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrBookingNotFound indicates a booking id that has no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound indicates a user id or email that has no row.
var ErrUserNotFound = errors.New("user not found")

// ErrSeatNotAvailable is returned when a seat is already booked for the
// requested showtime, whether detected at the availability check or at
// commit via the unique index over live bookings.  Handlers translate
// it into an HTTP 409 response.
var ErrSeatNotAvailable = errors.New("seat not available")

// ErrShowtimeOverlap is returned when a new or updated showtime
// interval intersects an existing showtime in the same theater.
// Handlers translate it into an HTTP 409 response.
var ErrShowtimeOverlap = errors.New("showtime overlaps an existing showtime")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a showtime that still has live
// bookings or cancelling a booking that is already cancelled.
var ErrConflict = errors.New("conflict")

// ErrLockWait is returned when a theater scheduling lock could not be
// acquired within its bounded wait.  The condition is transient; the
// caller may retry.
var ErrLockWait = errors.New("lock wait timed out")

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// violation (error 1062), raised when an INSERT or UPDATE collides
// with a unique index.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
