package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinesync/cinesync/internal/model"
)

// FilmRepo provides read access to the film catalog. The catalog is
// maintained elsewhere; the booking service only reads it, mainly for
// the duration used to derive session end times.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{db: db} }

// GetByID retrieves a film by its ID. It returns ErrFilmNotFound when
// no matching row exists.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*model.Film, error) {
	const q = `SELECT id, title, duration_min, genre, country, created_at
	           FROM films WHERE id = ?`
	var f model.Film
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.Title, &f.DurationMin, &f.Genre, &f.Country, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListAll returns the whole catalog ordered by title.
func (r *FilmRepo) ListAll(ctx context.Context) ([]model.Film, error) {
	const q = `SELECT id, title, duration_min, genre, country, created_at
	           FROM films ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	films := make([]model.Film, 0)
	for rows.Next() {
		var f model.Film
		if err := rows.Scan(&f.ID, &f.Title, &f.DurationMin, &f.Genre, &f.Country, &f.CreatedAt); err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return films, nil
}
