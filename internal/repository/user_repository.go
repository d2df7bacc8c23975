package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// UserRepo provides read access to user accounts.  Registration is
// out of scope for this service; users are provisioned directly in
// SQL or by an external identity system.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, password_hash, role, created_at, updated_at`

// GetByEmail looks a user up by email for login.  It returns
// ErrUserNotFound when no account exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID looks a user up by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsTx verifies inside the caller's transaction that a user row
// exists, without reading the credential columns.
func (r *UserRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

// EnsureSeedAdmin inserts the bootstrap admin account if no user with
// that email exists yet.  Idempotent across restarts.
func (r *UserRepo) EnsureSeedAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role)
		 SELECT ?, ?, ? FROM DUAL
		 WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = ?)`,
		email, passwordHash, model.RoleAdmin, email,
	)
	return err
}
