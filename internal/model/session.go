package model

import "time"

// FilmSession is a scheduled screening of a film in an auditorium.
// EndsAt is always derived from StartsAt plus the film's duration and
// is nil while either of those is unknown. PriceCents is the per-seat
// ticket price and must be positive.
//
// Fields:
//  ID           – primary key identifier.
//  FilmID       – film being screened.
//  AuditoriumID – auditorium the screening takes place in.
//  StartsAt     – when the session begins (UTC).
//  EndsAt       – derived end time; nil when not computable.
//  PriceCents   – ticket price in cents (> 0).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type FilmSession struct {
	ID           uint64     // film_sessions.id
	FilmID       uint64     // film_sessions.film_id
	AuditoriumID uint64     // film_sessions.auditorium_id
	StartsAt     time.Time  // film_sessions.starts_at
	EndsAt       *time.Time // film_sessions.ends_at (nullable)
	PriceCents   uint32     // film_sessions.price_cents
	CreatedAt    time.Time  // film_sessions.created_at
	UpdatedAt    time.Time  // film_sessions.updated_at
}

// RecomputeEnd derives EndsAt from StartsAt and the film duration in
// minutes. It runs on every save of a session, overwriting whatever was
// stored before; the end time is never independently settable. A zero
// start or unknown (0) duration clears EndsAt.
func (s *FilmSession) RecomputeEnd(durationMin uint32) {
	if s.StartsAt.IsZero() || durationMin == 0 {
		s.EndsAt = nil
		return
	}
	end := s.StartsAt.Add(time.Duration(durationMin) * time.Minute)
	s.EndsAt = &end
}
