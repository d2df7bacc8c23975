package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// SeatAvailabilityRepo manages the per-(seat, showtime) availability
// ledger.  A row exists for every seat of the theater once a showtime
// is scheduled; the (seat_id, showtime_id) pair is unique.  Status
// transitions are guarded UPDATEs so a row can never skip states even
// if a caller misuses the API.
type SeatAvailabilityRepo struct {
	db *sql.DB
}

// NewSeatAvailabilityRepo constructs a SeatAvailabilityRepo bound to
// the given database.
func NewSeatAvailabilityRepo(db *sql.DB) *SeatAvailabilityRepo { return &SeatAvailabilityRepo{db: db} }

const availabilityColumns = `id, seat_id, showtime_id, status, price_cents, created_at, updated_at`

// CreateBulkTx inserts one availability row per element in a single
// statement within the caller's transaction.  Passing an empty slice
// has no effect and returns nil.
func (r *SeatAvailabilityRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, rows []model.SeatAvailability) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO seat_availability (seat_id, showtime_id, status, price_cents) VALUES `
	args := make([]interface{}, 0, len(rows)*4)
	for i, sa := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, sa.SeatID, sa.ShowtimeID, sa.Status, sa.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetForUpdateTx reads the availability row for (seat, showtime) with
// SELECT ... FOR UPDATE, blocking concurrent bookers on the same row
// until the caller's transaction commits or rolls back.  A missing
// row is reported as ErrSeatNotAvailable: a seat with no ledger row
// is not sellable for that showtime.
func (r *SeatAvailabilityRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, seatID, showtimeID uint64) (*model.SeatAvailability, error) {
	const q = `SELECT ` + availabilityColumns + ` FROM seat_availability WHERE seat_id = ? AND showtime_id = ? FOR UPDATE`
	var sa model.SeatAvailability
	err := tx.QueryRowContext(ctx, q, seatID, showtimeID).
		Scan(&sa.ID, &sa.SeatID, &sa.ShowtimeID, &sa.Status, &sa.PriceCents, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotAvailable
		}
		return nil, err
	}
	return &sa, nil
}

// IsAvailable reports whether the seat is currently sellable for the
// showtime.  This is an unlocked read intended for display; the
// authoritative check happens under GetForUpdateTx.
func (r *SeatAvailabilityRepo) IsAvailable(ctx context.Context, seatID, showtimeID uint64) (bool, error) {
	const q = `SELECT status FROM seat_availability WHERE seat_id = ? AND showtime_id = ?`
	var status string
	err := r.db.QueryRowContext(ctx, q, seatID, showtimeID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return status == model.AvailabilityAvailable, nil
}

// MarkBookedTx transitions a row AVAILABLE -> BOOKED within the
// caller's transaction.  The status guard in the WHERE clause makes
// the update a no-op when the row is already BOOKED, which is
// reported as ErrSeatNotAvailable.
func (r *SeatAvailabilityRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE seat_availability SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, model.AvailabilityBooked, id, model.AvailabilityAvailable)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotAvailable
	}
	return nil
}

// MarkAvailableTx transitions a row BOOKED -> AVAILABLE within the
// caller's transaction; used when a booking is cancelled, deleted or
// moved to another seat.  A row that is not BOOKED is reported as
// ErrConflict.
func (r *SeatAvailabilityRepo) MarkAvailableTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE seat_availability SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, model.AvailabilityAvailable, id, model.AvailabilityBooked)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// GetBySeatAndShowtimeTx reads the availability row for (seat,
// showtime) inside the caller's transaction without locking it.  Used
// when releasing the old seat during a booking move, where the
// booking row itself is already locked.
func (r *SeatAvailabilityRepo) GetBySeatAndShowtimeTx(ctx context.Context, tx *sql.Tx, seatID, showtimeID uint64) (*model.SeatAvailability, error) {
	const q = `SELECT ` + availabilityColumns + ` FROM seat_availability WHERE seat_id = ? AND showtime_id = ?`
	var sa model.SeatAvailability
	err := tx.QueryRowContext(ctx, q, seatID, showtimeID).
		Scan(&sa.ID, &sa.SeatID, &sa.ShowtimeID, &sa.Status, &sa.PriceCents, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotAvailable
		}
		return nil, err
	}
	return &sa, nil
}

// AvailableSeat is a row returned by ListAvailableByShowtime: a seat
// joined with its per-showtime price.
type AvailableSeat struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	PriceCents uint32 `json:"price_cents"`
}

// ListAvailableByShowtime returns the seats still AVAILABLE for a
// showtime, optionally filtered by a row-letter prefix of the seat
// number and by an inclusive price band in cents.  Nil price bounds
// mean no bound.  The result is a best-effort snapshot: it takes no
// locks and may be stale by the time the caller books.
func (r *SeatAvailabilityRepo) ListAvailableByShowtime(ctx context.Context, showtimeID uint64, rowPrefix string, minCents, maxCents *uint32) ([]AvailableSeat, error) {
	q := `SELECT s.id, s.seat_number, sa.price_cents
		  FROM seat_availability sa
		  JOIN seats s ON s.id = sa.seat_id
		  WHERE sa.showtime_id = ? AND sa.status = ?`
	args := []interface{}{showtimeID, model.AvailabilityAvailable}
	if rowPrefix != "" {
		q += ` AND s.seat_number LIKE ?`
		args = append(args, rowPrefix+"%")
	}
	if minCents != nil {
		q += ` AND sa.price_cents >= ?`
		args = append(args, *minCents)
	}
	if maxCents != nil {
		q += ` AND sa.price_cents <= ?`
		args = append(args, *maxCents)
	}
	q += ` ORDER BY s.seat_number ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]AvailableSeat, 0)
	for rows.Next() {
		var as AvailableSeat
		if err := rows.Scan(&as.SeatID, &as.SeatNumber, &as.PriceCents); err != nil {
			return nil, err
		}
		seats = append(seats, as)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// DeleteByShowtimeTx removes all availability rows of a showtime
// within the caller's transaction, as part of showtime deletion.
func (r *SeatAvailabilityRepo) DeleteByShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM seat_availability WHERE showtime_id = ?`, showtimeID)
	return err
}
