package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

// MovieHandler exposes catalog management (admin) and browsing
// (public) endpoints for movies.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

func NewMovieHandler(movies *repository.MovieRepo) *MovieHandler {
	if movies == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies}
}

type movieReq struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	DurationMin uint32 `json:"duration_minutes"`
	Rating      string `json:"rating"`
	ReleaseYear uint32 `json:"release_year"`
}

type movieResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	DurationMin uint32 `json:"duration_minutes"`
	Rating      string `json:"rating"`
	ReleaseYear uint32 `json:"release_year"`
}

func toMovieResp(m *model.Movie) movieResp {
	return movieResp{
		ID:          m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		DurationMin: m.DurationMin,
		Rating:      m.Rating,
		ReleaseYear: m.ReleaseYear,
	}
}

// Create adds a movie to the catalog.  Admin only.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_minutes required"})
	}

	m := &model.Movie{
		Title:       req.Title,
		Genre:       strings.TrimSpace(req.Genre),
		DurationMin: req.DurationMin,
		Rating:      strings.TrimSpace(req.Rating),
		ReleaseYear: req.ReleaseYear,
	}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, toMovieResp(m))
}

// Get returns one movie by id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// List returns a page of the catalog.
func (h *MovieHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	movies, total, err := h.Movies.List(c.Request().Context(), limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	out := make([]movieResp, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResp(&movies[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "total": total})
}

// Update replaces a movie's fields.  Admin only.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and duration_minutes required"})
	}

	m := &model.Movie{
		ID:          id,
		Title:       req.Title,
		Genre:       strings.TrimSpace(req.Genre),
		DurationMin: req.DurationMin,
		Rating:      strings.TrimSpace(req.Rating),
		ReleaseYear: req.ReleaseYear,
	}
	if err := h.Movies.Update(c.Request().Context(), m); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// Delete removes a movie.  Rejected while showtimes reference it.
// Admin only.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
