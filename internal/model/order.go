package model

import (
	"fmt"
	"time"
)

// Seat is a (row, column) coordinate inside an auditorium's layout.
// Both coordinates are 1-based.
type Seat struct {
	Row    uint32 `json:"row"`
	Column uint32 `json:"column"`
}

// Key renders the seat as "row-column", the form used for occupancy
// sets in API responses.
func (s Seat) Key() string {
	return fmt.Sprintf("%d-%d", s.Row, s.Column)
}

// Order groups the tickets a user booked for one session in a single
// submission. An order exclusively owns its tickets; deleting the
// order cascades to them.
//
// Fields:
//  ID               – primary key identifier.
//  SessionID        – session the order was placed against.
//  UserID           – user who placed the order.
//  TotalAmountCents – session price times the number of tickets.
//  OrderedAt        – when the order was placed (UTC).
type Order struct {
	ID               uint64    // orders.id
	SessionID        uint64    // orders.session_id
	UserID           uint64    // orders.user_id
	TotalAmountCents uint32    // orders.total_amount_cents
	OrderedAt        time.Time // orders.ordered_at
	Tickets          []Ticket  // owned tickets, populated on reads
}

// Ticket is a single reserved seat belonging to an order. SessionID is
// denormalized from the order so that the database can enforce the
// no-double-booking invariant with a unique key on
// (session_id, row_number, column_number).
//
// Fields:
//  ID           – primary key identifier.
//  OrderID      – owning order.
//  SessionID    – session the seat is reserved for.
//  RowNumber    – 1-based row coordinate.
//  ColumnNumber – 1-based column coordinate.
type Ticket struct {
	ID           uint64 // tickets.id
	OrderID      uint64 // tickets.order_id
	SessionID    uint64 // tickets.session_id
	RowNumber    uint32 // tickets.row_number
	ColumnNumber uint32 // tickets.column_number
}

// Seat returns the ticket's seat coordinate.
func (t Ticket) Seat() Seat {
	return Seat{Row: t.RowNumber, Column: t.ColumnNumber}
}
