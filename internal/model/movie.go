package model

import "time"

// Movie represents a film in the catalog.  Movies are referenced by
// showtimes; deleting a movie is rejected while showtimes for it
// exist.  This struct corresponds to a row in the `movies` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Genre       – genre label (e.g. "Drama").
//  DurationMin – running time in minutes.
//  Rating      – certification rating (e.g. "PG-13").
//  ReleaseYear – year of first release.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Genre       string    // movies.genre
	DurationMin uint32    // movies.duration_minutes
	Rating      string    // movies.rating
	ReleaseYear uint32    // movies.release_year
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
