// Package queue defines the order event payload exchanged over the
// message broker and the background consumer that records it.
package queue

// OrderConfirmedEvent is published after a booking transaction
// commits. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type OrderConfirmedEvent struct {
	OrderID          uint64   `json:"order_id"`
	UserID           uint64   `json:"user_id"`
	SessionID        uint64   `json:"session_id"`
	FilmTitle        string   `json:"film_title"`
	Auditorium       string   `json:"auditorium"`
	StartsAt         string   `json:"starts_at"`
	Seats            []string `json:"seats"` // "row-column" keys
	TotalAmountCents uint32   `json:"total_amount_cents"`
	OrderedAt        string   `json:"ordered_at"`
}
