package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates every table the application needs.  Statements are
// idempotent (CREATE TABLE IF NOT EXISTS) so the server can run them
// unconditionally at startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		createUsersTable,
		createRefreshTokensTable,
		createMoviesTable,
		createTheatersTable,
		createSeatsTable,
		createShowtimesTable,
		createSeatAvailabilityTable,
		createBookingsTable,
	}
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	email         VARCHAR(255)    NOT NULL,
	password_hash VARCHAR(100)    NOT NULL,
	role          VARCHAR(20)     NOT NULL DEFAULT 'CUSTOMER',
	created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	UNIQUE KEY uq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createRefreshTokensTable = `
CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	user_id    BIGINT UNSIGNED NOT NULL,
	token_hash CHAR(64)        NOT NULL,
	expires_at DATETIME        NOT NULL,
	revoked_at DATETIME        NULL,
	created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	UNIQUE KEY uq_refresh_tokens_hash (token_hash),
	KEY idx_refresh_tokens_user (user_id),
	CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createMoviesTable = `
CREATE TABLE IF NOT EXISTS movies (
	id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	title            VARCHAR(255)    NOT NULL,
	genre            VARCHAR(100)    NOT NULL DEFAULT '',
	duration_minutes INT UNSIGNED    NOT NULL,
	rating           VARCHAR(20)     NOT NULL DEFAULT '',
	release_year     INT UNSIGNED    NOT NULL DEFAULT 0,
	created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createTheatersTable = `
CREATE TABLE IF NOT EXISTS theaters (
	id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	name       VARCHAR(255)    NOT NULL,
	location   VARCHAR(255)    NOT NULL DEFAULT '',
	max_seats  INT UNSIGNED    NOT NULL,
	created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	UNIQUE KEY uq_theaters_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
	id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	theater_id  BIGINT UNSIGNED NOT NULL,
	seat_number VARCHAR(10)     NOT NULL,
	created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	UNIQUE KEY uq_seats_theater_number (theater_id, seat_number),
	CONSTRAINT fk_seats_theater FOREIGN KEY (theater_id) REFERENCES theaters (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createShowtimesTable = `
CREATE TABLE IF NOT EXISTS showtimes (
	id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	movie_id         BIGINT UNSIGNED NOT NULL,
	theater_id       BIGINT UNSIGNED NOT NULL,
	starts_at        DATETIME        NOT NULL,
	ends_at          DATETIME        NOT NULL,
	base_price_cents INT UNSIGNED    NOT NULL DEFAULT 0,
	created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	KEY idx_showtimes_theater_starts (theater_id, starts_at),
	KEY idx_showtimes_movie (movie_id),
	CONSTRAINT fk_showtimes_movie FOREIGN KEY (movie_id) REFERENCES movies (id),
	CONSTRAINT fk_showtimes_theater FOREIGN KEY (theater_id) REFERENCES theaters (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createSeatAvailabilityTable = `
CREATE TABLE IF NOT EXISTS seat_availability (
	id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	seat_id     BIGINT UNSIGNED NOT NULL,
	showtime_id BIGINT UNSIGNED NOT NULL,
	status      VARCHAR(20)     NOT NULL DEFAULT 'AVAILABLE',
	price_cents INT UNSIGNED    NOT NULL DEFAULT 0,
	created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	UNIQUE KEY uq_availability_seat_showtime (seat_id, showtime_id),
	KEY idx_availability_showtime_status (showtime_id, status),
	CONSTRAINT fk_availability_seat FOREIGN KEY (seat_id) REFERENCES seats (id),
	CONSTRAINT fk_availability_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

// The generated `live` column is NULL for cancelled bookings, and
// MySQL unique indexes ignore NULLs, so uq_bookings_live_seat admits
// any number of cancelled bookings per (seat, showtime) but at most
// one live booking.  This backstops the row-lock check in the
// booking path.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
	id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	user_id     BIGINT UNSIGNED NOT NULL,
	showtime_id BIGINT UNSIGNED NOT NULL,
	seat_id     BIGINT UNSIGNED NOT NULL,
	price_cents INT UNSIGNED    NOT NULL DEFAULT 0,
	status      VARCHAR(20)     NOT NULL DEFAULT 'PENDING',
	live        TINYINT AS (IF(status = 'CANCELLED', NULL, 1)) STORED,
	created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	UNIQUE KEY uq_bookings_live_seat (seat_id, showtime_id, live),
	KEY idx_bookings_user (user_id),
	KEY idx_bookings_showtime_status (showtime_id, status),
	CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
	CONSTRAINT fk_bookings_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes (id),
	CONSTRAINT fk_bookings_seat FOREIGN KEY (seat_id) REFERENCES seats (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
