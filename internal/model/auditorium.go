package model

import "time"

// Auditorium represents a screening hall. Its seating layout is a set
// of rows, each with its own seat count, so halls do not have to be
// rectangular.
//
// Fields:
//  ID        – primary key identifier.
//  Number    – human-readable hall label ("1", "IMAX", ...).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Auditorium struct {
	ID        uint64    // auditoriums.id
	Number    string    // auditoriums.number
	CreatedAt time.Time // auditoriums.created_at
	UpdatedAt time.Time // auditoriums.updated_at
}

// Row is one seating row of an auditorium. Row numbers are unique
// within an auditorium and both RowNumber and SeatCount are >= 1.
//
// Fields:
//  ID           – primary key identifier.
//  AuditoriumID – auditorium this row belongs to.
//  RowNumber    – 1-based row number within the auditorium.
//  SeatCount    – number of seats (columns) in the row.
type Row struct {
	ID           uint64 // auditorium_rows.id
	AuditoriumID uint64 // auditorium_rows.auditorium_id
	RowNumber    uint32 // auditorium_rows.row_number
	SeatCount    uint32 // auditorium_rows.seat_count
}
