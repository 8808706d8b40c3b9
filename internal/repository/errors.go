// Package repository contains the data access layer. Sentinel errors
// defined here let handlers distinguish failure scenarios without
// inspecting driver errors: not-found values map to HTTP 404,
// ErrSeatTaken to 409, ErrForbidden to 403. Anything else is treated
// as a persistence error and surfaced as a 500 after rollback.
package repository

import "errors"

// ErrSessionNotFound is returned when a film session lookup yields no rows.
var ErrSessionNotFound = errors.New("session not found")

// ErrFilmNotFound is returned when a film lookup yields no rows.
var ErrFilmNotFound = errors.New("film not found")

// ErrAuditoriumNotFound is returned when an auditorium lookup yields no rows.
var ErrAuditoriumNotFound = errors.New("auditorium not found")

// ErrOrderNotFound is returned when an order lookup yields no rows.
var ErrOrderNotFound = errors.New("order not found")

// ErrSeatTaken signals that at least one requested seat already has a
// ticket for the session, either found during the in-transaction
// occupancy re-check or reported by the unique key on
// (session_id, row_number, column_number) at commit time.
var ErrSeatTaken = errors.New("seat already taken")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidPrice is returned when a session is saved with a
// non-positive ticket price.
var ErrInvalidPrice = errors.New("price must be positive")
