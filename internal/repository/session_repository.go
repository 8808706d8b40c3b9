package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinesync/cinesync/internal/model"
)

// timetableWindowDays bounds the "nearest" timetable query: only
// sessions starting within this many days from now are returned.
const timetableWindowDays = 5

// SessionDetail is a film session with its film and auditorium data
// joined in, the eager-loaded shape the timetable and booking read
// paths work with.
type SessionDetail struct {
	ID           uint64     `json:"id"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	PriceCents   uint32     `json:"price_cents"`
	FilmID       uint64     `json:"film_id"`
	FilmTitle    string     `json:"film_title"`
	DurationMin  uint32     `json:"duration_min"`
	Genre        string     `json:"genre,omitempty"`
	Country      string     `json:"country,omitempty"`
	AuditoriumID uint64     `json:"auditorium_id"`
	Auditorium   string     `json:"auditorium"`
}

// SessionRepo is the schedule store. Besides plain CRUD it maintains
// the derived end time invariant: every save recomputes ends_at from
// starts_at plus the referenced film's duration, overwriting whatever
// was stored before.
type SessionRepo struct {
	db *sql.DB
	// now is injected so timetable window tests can pin the clock.
	now func() time.Time
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *SessionRepo) DB() *sql.DB { return r.db }

const sessionDetailColumns = `s.id, s.starts_at, s.ends_at, s.price_cents,
	       f.id, f.title, f.duration_min, f.genre, f.country,
	       a.id, a.number`

func scanSessionDetail(row interface {
	Scan(dest ...interface{}) error
}) (SessionDetail, error) {
	var d SessionDetail
	var ends sql.NullTime
	err := row.Scan(
		&d.ID, &d.StartsAt, &ends, &d.PriceCents,
		&d.FilmID, &d.FilmTitle, &d.DurationMin, &d.Genre, &d.Country,
		&d.AuditoriumID, &d.Auditorium,
	)
	if err != nil {
		return SessionDetail{}, err
	}
	if ends.Valid {
		t := ends.Time.UTC()
		d.EndsAt = &t
	}
	d.StartsAt = d.StartsAt.UTC()
	return d, nil
}

// Create inserts a new session. The film's duration is read first so
// that ends_at can be derived; sessions of a film with unknown
// duration are stored with a NULL end time. The generated ID is
// populated on the given session.
func (r *SessionRepo) Create(ctx context.Context, s *model.FilmSession) error {
	if s.PriceCents == 0 {
		return ErrInvalidPrice
	}
	duration, err := r.filmDuration(ctx, s.FilmID)
	if err != nil {
		return err
	}
	s.RecomputeEnd(duration)
	const q = `INSERT INTO film_sessions (film_id, auditorium_id, starts_at, ends_at, price_cents)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.FilmID, s.AuditoriumID, s.StartsAt, s.EndsAt, s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update saves an existing session. Like Create it unconditionally
// recomputes ends_at; a stored end time never survives a save with a
// changed start or film.
func (r *SessionRepo) Update(ctx context.Context, s *model.FilmSession) error {
	if s.PriceCents == 0 {
		return ErrInvalidPrice
	}
	duration, err := r.filmDuration(ctx, s.FilmID)
	if err != nil {
		return err
	}
	s.RecomputeEnd(duration)
	const q = `UPDATE film_sessions
	           SET film_id = ?, auditorium_id = ?, starts_at = ?, ends_at = ?, price_cents = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.FilmID, s.AuditoriumID, s.StartsAt, s.EndsAt, s.PriceCents, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) filmDuration(ctx context.Context, filmID uint64) (uint32, error) {
	var duration uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT duration_min FROM films WHERE id = ?`, filmID).Scan(&duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrFilmNotFound
		}
		return 0, err
	}
	return duration, nil
}

// GetByID retrieves one session with film and auditorium data joined
// in. It returns ErrSessionNotFound when no matching row exists.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*SessionDetail, error) {
	const q = `SELECT ` + sessionDetailColumns + `
	           FROM film_sessions s
	           JOIN films f ON f.id = s.film_id
	           JOIN auditoriums a ON a.id = s.auditorium_id
	           WHERE s.id = ?`
	d, err := scanSessionDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// NearestTimetable returns sessions starting within the next five
// days, ordered by start time ascending, with film and auditorium data
// eagerly loaded.
func (r *SessionRepo) NearestTimetable(ctx context.Context) ([]SessionDetail, error) {
	now := r.now()
	return r.listBetween(ctx, now, now.AddDate(0, 0, timetableWindowDays))
}

// AllTimetable returns every session starting at or after now, ordered
// by start time ascending, with film and auditorium data eagerly
// loaded.
func (r *SessionRepo) AllTimetable(ctx context.Context) ([]SessionDetail, error) {
	const q = `SELECT ` + sessionDetailColumns + `
	           FROM film_sessions s
	           JOIN films f ON f.id = s.film_id
	           JOIN auditoriums a ON a.id = s.auditorium_id
	           WHERE s.starts_at >= ?
	           ORDER BY s.starts_at ASC`
	return r.querySessions(ctx, q, r.now())
}

func (r *SessionRepo) listBetween(ctx context.Context, from, to time.Time) ([]SessionDetail, error) {
	const q = `SELECT ` + sessionDetailColumns + `
	           FROM film_sessions s
	           JOIN films f ON f.id = s.film_id
	           JOIN auditoriums a ON a.id = s.auditorium_id
	           WHERE s.starts_at >= ? AND s.starts_at <= ?
	           ORDER BY s.starts_at ASC`
	return r.querySessions(ctx, q, from, to)
}

func (r *SessionRepo) querySessions(ctx context.Context, q string, args ...interface{}) ([]SessionDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]SessionDetail, 0)
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
