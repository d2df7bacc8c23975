package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// BookingRepo manages persistence for bookings.  The bookings table
// carries a generated `live` column that is 1 for PENDING/CONFIRMED
// rows and NULL for CANCELLED ones; the unique index over (seat_id,
// showtime_id, live) is the structural backstop guaranteeing at most
// one live booking per seat per showtime even if row locking were
// misconfigured.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that coordinate
// transactions across repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, user_id, showtime_id, seat_id, price_cents, status, created_at, updated_at`

func scanBooking(b *model.Booking, scan func(...any) error) error {
	return scan(&b.ID, &b.UserID, &b.ShowtimeID, &b.SeatID, &b.PriceCents, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

// CreateTx inserts a new booking within the caller's transaction and
// populates the generated ID and DB-default fields on the given
// struct.  A duplicate-key violation of the live-booking unique index
// means another transaction already sold the seat; it is translated
// to ErrSeatNotAvailable so callers see the same error as from the
// availability check.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, showtime_id, seat_id, price_cents, status) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.ShowtimeID, b.SeatID, b.PriceCents, b.Status)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrSeatNotAvailable
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	return scanBooking(b, row.Scan)
}

// GetByID retrieves a booking by its ID.  It returns
// ErrBookingNotFound when no matching row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	if err := scanBooking(&b, row.Scan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetForUpdateTx reads a booking with SELECT ... FOR UPDATE inside the
// caller's transaction, so concurrent status transitions on the same
// booking serialize.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	var b model.Booking
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id)
	if err := scanBooking(&b, row.Scan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatusTx transitions a booking's status within the caller's
// transaction.  The expected current status is part of the WHERE
// clause; zero rows affected means the booking is not in that state
// and is reported as ErrConflict.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// UpdateSeatTx moves a booking to a different (showtime, seat) pair,
// updating the price to the new seat's per-showtime price.  A
// duplicate-key violation means the target seat gained a live booking
// concurrently and is translated to ErrSeatNotAvailable.
func (r *BookingRepo) UpdateSeatTx(ctx context.Context, tx *sql.Tx, id, showtimeID, seatID uint64, priceCents uint32) error {
	const q = `UPDATE bookings SET showtime_id = ?, seat_id = ?, price_cents = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, showtimeID, seatID, priceCents, id)
	if err != nil && isDuplicateEntry(err) {
		return ErrSeatNotAvailable
	}
	return err
}

// DeleteTx removes a booking row within the caller's transaction.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CountLiveByShowtimeTx counts non-cancelled bookings of a showtime
// inside the caller's transaction; showtime deletion is rejected
// while this is non-zero.
func (r *BookingRepo) CountLiveByShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE showtime_id = ? AND status <> ?`
	var n int
	err := tx.QueryRowContext(ctx, q, showtimeID, model.BookingCancelled).Scan(&n)
	return n, err
}

// ListByUser returns a page of a user's bookings ordered newest first,
// together with the total row count.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(&b, rows.Scan); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListAll returns a page over every booking in the system, newest
// first, together with the total row count.  Admin-only surface.
func (r *BookingRepo) ListAll(ctx context.Context, limit, offset int) ([]model.Booking, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(&b, rows.Scan); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}
