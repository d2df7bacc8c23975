package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// ShowtimeRepo manages persistence for showtimes.  All timestamps are
// stored and compared in UTC.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

const showtimeColumns = `id, movie_id, theater_id, starts_at, ends_at, base_price_cents, created_at, updated_at`

func scanShowtime(s *model.Showtime, scan func(...any) error) error {
	return scan(&s.ID, &s.MovieID, &s.TheaterID, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.CreatedAt, &s.UpdatedAt)
}

// CreateTx inserts a new showtime within the caller's transaction and
// populates the generated ID and DB-default timestamps on the given
// struct.  The caller must commit or roll back the transaction.
func (r *ShowtimeRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, theater_id, starts_at, ends_at, base_price_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.TheaterID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.BasePriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT `+showtimeColumns+` FROM showtimes WHERE id = ?`, s.ID)
	return scanShowtime(s, row.Scan)
}

// GetByID retrieves a showtime by its ID.  It returns
// ErrShowtimeNotFound when no matching row exists.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	var s model.Showtime
	row := r.db.QueryRowContext(ctx, `SELECT `+showtimeColumns+` FROM showtimes WHERE id = ?`, id)
	if err := scanShowtime(&s, row.Scan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDTx is like GetByID but runs inside the caller's transaction.
func (r *ShowtimeRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Showtime, error) {
	var s model.Showtime
	row := tx.QueryRowContext(ctx, `SELECT `+showtimeColumns+` FROM showtimes WHERE id = ?`, id)
	if err := scanShowtime(&s, row.Scan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindOverlappingTx returns all showtimes in the theater whose
// half-open interval intersects [start, end).  A showtime overlaps
// when it starts before the proposed end and ends after the proposed
// start; showtimes that merely touch at a boundary are excluded.
// excludeID, when non-zero, removes the showtime being updated from
// the comparison set.  The query runs inside the caller's transaction
// so that the scan and the subsequent insert observe the same state.
func (r *ShowtimeRepo) FindOverlappingTx(ctx context.Context, tx *sql.Tx, theaterID, excludeID uint64, start, end time.Time) ([]model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes
			   WHERE theater_id = ? AND id <> ? AND NOT (ends_at <= ? OR starts_at >= ?)`
	rows, err := tx.QueryContext(ctx, q, theaterID, excludeID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var overlaps []model.Showtime
	for rows.Next() {
		var s model.Showtime
		if err := scanShowtime(&s, rows.Scan); err != nil {
			return nil, err
		}
		overlaps = append(overlaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overlaps, nil
}

// UpdateScheduleTx rewrites a showtime's movie, window and base price
// within the caller's transaction.  Availability rows are not touched;
// they stay keyed to the showtime id.
func (r *ShowtimeRepo) UpdateScheduleTx(ctx context.Context, tx *sql.Tx, s *model.Showtime) error {
	const q = `UPDATE showtimes SET movie_id = ?, starts_at = ?, ends_at = ?, base_price_cents = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.BasePriceCents, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ?`, s.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowtimeNotFound
		}
		return err
	}
	return nil
}

// DeleteTx removes a showtime row within the caller's transaction.
// Dependent seat_availability rows must have been removed first; the
// service layer is responsible for the live-booking check.
func (r *ShowtimeRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

// List returns a page of showtimes ordered by start time, optionally
// filtered by movie and/or theater, together with the total row count.
// A zero movieID or theaterID means no filter on that column.
func (r *ShowtimeRepo) List(ctx context.Context, movieID, theaterID uint64, limit, offset int) ([]model.Showtime, int64, error) {
	where := ` WHERE (? = 0 OR movie_id = ?) AND (? = 0 OR theater_id = ?)`
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM showtimes`+where,
		movieID, movieID, theaterID, theaterID).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + showtimeColumns + ` FROM showtimes` + where + ` ORDER BY starts_at ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, movieID, movieID, theaterID, theaterID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	showtimes := make([]model.Showtime, 0)
	for rows.Next() {
		var s model.Showtime
		if err := scanShowtime(&s, rows.Scan); err != nil {
			return nil, 0, err
		}
		showtimes = append(showtimes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return showtimes, total, nil
}

// AcquireTheaterLock takes a named advisory lock scoped to the theater
// on the given connection, waiting at most waitSecs seconds.  The scan
// returns 1 on success and 0 on timeout; timeout surfaces as
// ErrLockWait so callers can report a transient condition instead of
// hanging.  The lock is connection-scoped, so callers must release it
// on the same *sql.Conn after their transaction finishes.
func (r *ShowtimeRepo) AcquireTheaterLock(ctx context.Context, conn *sql.Conn, theaterID uint64, waitSecs int) error {
	var got sql.NullInt64
	err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(CONCAT('theater_schedule:', ?), ?)`, theaterID, waitSecs).Scan(&got)
	if err != nil {
		return err
	}
	if !got.Valid || got.Int64 != 1 {
		return ErrLockWait
	}
	return nil
}

// ReleaseTheaterLock releases the advisory lock taken by
// AcquireTheaterLock.  Errors are returned but are safe to ignore once
// the connection is being closed, since MySQL drops the lock with it.
func (r *ShowtimeRepo) ReleaseTheaterLock(ctx context.Context, conn *sql.Conn, theaterID uint64) error {
	var released sql.NullInt64
	return conn.QueryRowContext(ctx, `SELECT RELEASE_LOCK(CONCAT('theater_schedule:', ?))`, theaterID).Scan(&released)
}
