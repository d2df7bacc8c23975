package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// TheaterRepo manages persistence for theaters.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

const theaterColumns = `id, name, location, max_seats, created_at, updated_at`

// Create inserts a new theater.  Theater names are unique; a
// duplicate name is reported as ErrConflict.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	const q = `INSERT INTO theaters (name, location, max_seats) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location, t.MaxSeats)
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
	t.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT `+theaterColumns+` FROM theaters WHERE id = ?`, t.ID).
		Scan(&t.ID, &t.Name, &t.Location, &t.MaxSeats, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID retrieves a theater by its ID.  It returns
// ErrTheaterNotFound when no matching row exists.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	var t model.Theater
	err := r.db.QueryRowContext(ctx, `SELECT `+theaterColumns+` FROM theaters WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Location, &t.MaxSeats, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDTx is like GetByID but runs inside the caller's transaction.
func (r *TheaterRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Theater, error) {
	var t model.Theater
	err := tx.QueryRowContext(ctx, `SELECT `+theaterColumns+` FROM theaters WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Location, &t.MaxSeats, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all theaters ordered by name.
func (r *TheaterRepo) List(ctx context.Context) ([]model.Theater, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+theaterColumns+` FROM theaters ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	theaters := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.MaxSeats, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		theaters = append(theaters, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return theaters, nil
}

// Update rewrites a theater's fields.  A duplicate name is reported
// as ErrConflict and a missing row as ErrTheaterNotFound.
func (r *TheaterRepo) Update(ctx context.Context, t *model.Theater) error {
	const q = `UPDATE theaters SET name = ?, location = ?, max_seats = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location, t.MaxSeats, t.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE id = ?`, t.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTheaterNotFound
		}
		return err
	}
	return nil
}

// Delete removes a theater together with its seats.  The deletion is
// rejected with ErrConflict while showtimes for the theater exist, so
// that availability and booking rows are never orphaned.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var one int
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTheaterNotFound
		}
		return err
	}
	var n int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM showtimes WHERE theater_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM seats WHERE theater_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM theaters WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
