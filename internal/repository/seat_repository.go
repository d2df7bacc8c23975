package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// SeatRepo manages persistence for theater seats.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatColumns = `id, theater_id, seat_number, created_at, updated_at`

// Create inserts a single seat.  Seat numbers are unique per theater;
// a duplicate is reported as ErrConflict.  The theater's max_seats
// cap is enforced here so that the inventory can never exceed it.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	var maxSeats, current uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT t.max_seats, (SELECT COUNT(*) FROM seats WHERE theater_id = t.id) FROM theaters t WHERE t.id = ?`,
		s.TheaterID,
	).Scan(&maxSeats, &current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTheaterNotFound
		}
		return err
	}
	if current >= maxSeats {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO seats (theater_id, seat_number) VALUES (?, ?)`, s.TheaterID, s.SeatNumber)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, s.ID).
		Scan(&s.ID, &s.TheaterID, &s.SeatNumber, &s.CreatedAt, &s.UpdatedAt)
}

// GetByTheater returns all seats of a theater ordered by seat number.
func (r *SeatRepo) GetByTheater(ctx context.Context, theaterID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE theater_id = ? ORDER BY seat_number ASC`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.SeatNumber, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// GetByTheaterTx is like GetByTheater but runs inside the caller's
// transaction, so seeding availability rows sees a consistent seat set.
func (r *SeatRepo) GetByTheaterTx(ctx context.Context, tx *sql.Tx, theaterID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE theater_id = ? ORDER BY seat_number ASC`
	rows, err := tx.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.SeatNumber, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// GetByNumberTx resolves a seat by its number within a theater, inside
// the caller's transaction.  It returns ErrSeatNotFound when the
// theater has no such seat.
func (r *SeatRepo) GetByNumberTx(ctx context.Context, tx *sql.Tx, theaterID uint64, seatNumber string) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE theater_id = ? AND seat_number = ?`
	var s model.Seat
	err := tx.QueryRowContext(ctx, q, theaterID, seatNumber).
		Scan(&s.ID, &s.TheaterID, &s.SeatNumber, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes a seat.  It returns ErrConflict while availability
// rows reference the seat (i.e. any showtime is scheduled for its
// theater) and ErrSeatNotFound when the row is missing.
func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seat_availability WHERE seat_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM seats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}
