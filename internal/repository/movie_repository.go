package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// MovieRepo manages persistence for the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `id, title, genre, duration_minutes, rating, release_year, created_at, updated_at`

func scanMovie(row *sql.Row, m *model.Movie) error {
	return row.Scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin, &m.Rating, &m.ReleaseYear, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a new movie and populates the generated ID and
// DB-default timestamps on the given struct.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, genre, duration_minutes, rating, release_year) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre, m.DurationMin, m.Rating, m.ReleaseYear)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return scanMovie(r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, m.ID), m)
}

// GetByID retrieves a movie by its ID.  It returns ErrMovieNotFound
// when no matching row exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := scanMovie(r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id), &m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns a page of movies ordered by title together with the
// total number of rows.
func (r *MovieRepo) List(ctx context.Context, limit, offset int) ([]model.Movie, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + movieColumns + ` FROM movies ORDER BY title ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin, &m.Rating, &m.ReleaseYear, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// Update rewrites a movie's catalog fields.  It returns
// ErrMovieNotFound when the row does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies SET title = ?, genre = ?, duration_minutes = ?, rating = ?, release_year = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre, m.DurationMin, m.Rating, m.ReleaseYear, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Zero rows affected is ambiguous: missing row or identical values.
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, m.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}
	return nil
}

// Delete removes a movie.  It returns ErrConflict while showtimes for
// the movie exist and ErrMovieNotFound when the row is missing.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM showtimes WHERE movie_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
