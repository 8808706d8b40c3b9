package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/cinesync/cinesync/internal/model"
)

// mysqlDupEntry is the MySQL error number for a unique key violation.
// The tickets table carries UNIQUE (session_id, row_number,
// column_number), so a duplicate entry during PlaceOrder means a
// concurrent booking won the same seat.
const mysqlDupEntry = 1062

// OrderRepo persists orders and their tickets and answers occupancy
// queries. PlaceOrder is the only writer of order/ticket state; all of
// its writes happen inside one transaction.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// TicketsForSession returns every ticket belonging to any order placed
// against the given session. The result is the session's occupancy.
func (r *OrderRepo) TicketsForSession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	const q = `SELECT t.id, t.order_id, t.session_id, t.row_number, t.column_number
	           FROM tickets t
	           WHERE t.session_id = ?
	           ORDER BY t.row_number, t.column_number`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// PlaceOrder atomically creates one order plus one ticket per seat.
// Inside a single transaction it re-reads the session's occupancy,
// returns ErrSeatTaken if any requested seat is already ticketed,
// inserts the order and bulk-inserts the tickets. Either everything is
// committed or nothing is; a concurrent booking of the same seat that
// slips past the re-check trips the unique key at insert time and is
// reported as ErrSeatTaken as well.
//
// Seats must already be validated against the auditorium layout; the
// caller passes the per-seat price so the order total can be stored.
func (r *OrderRepo) PlaceOrder(ctx context.Context, sessionID, userID uint64, priceCents uint32, seats []model.Seat, placedAt time.Time) (*model.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	occupied, err := ticketsForSessionTx(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t.Seat().Key()] = struct{}{}
	}
	for _, seat := range seats {
		if _, ok := taken[seat.Key()]; ok {
			return nil, ErrSeatTaken
		}
	}

	order := &model.Order{
		SessionID:        sessionID,
		UserID:           userID,
		TotalAmountCents: priceCents * uint32(len(seats)),
		OrderedAt:        placedAt.UTC(),
	}
	const insOrder = `INSERT INTO orders (session_id, user_id, total_amount_cents, ordered_at)
	                  VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insOrder, order.SessionID, order.UserID, order.TotalAmountCents, order.OrderedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	order.ID = uint64(id)

	query := "INSERT INTO tickets (order_id, session_id, `row_number`, column_number) VALUES "
	args := make([]interface{}, 0, len(seats)*4)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, order.ID, sessionID, seat.Row, seat.Column)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return nil, ErrSeatTaken
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	order.Tickets = make([]model.Ticket, 0, len(seats))
	for _, seat := range seats {
		order.Tickets = append(order.Tickets, model.Ticket{
			OrderID:      order.ID,
			SessionID:    sessionID,
			RowNumber:    seat.Row,
			ColumnNumber: seat.Column,
		})
	}
	return order, nil
}

func ticketsForSessionTx(ctx context.Context, tx *sql.Tx, sessionID uint64) ([]model.Ticket, error) {
	// FOR UPDATE serializes concurrent bookings of the same session on
	// the existing ticket rows; the unique key covers the remaining
	// first-booking race.
	const q = `SELECT t.id, t.order_id, t.session_id, t.row_number, t.column_number
	           FROM tickets t
	           WHERE t.session_id = ?
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows *sql.Rows) ([]model.Ticket, error) {
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.OrderID, &t.SessionID, &t.RowNumber, &t.ColumnNumber); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// OrderDetail is an order joined with its session and film data plus
// the reserved seats, the shape returned to customers.
type OrderDetail struct {
	ID               uint64     `json:"id"`
	SessionID        uint64     `json:"session_id"`
	FilmTitle        string     `json:"film_title"`
	Auditorium       string     `json:"auditorium"`
	StartsAt         time.Time  `json:"starts_at"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
	TotalAmountCents uint32     `json:"total_amount_cents"`
	OrderedAt        time.Time  `json:"ordered_at"`
	Seats            []string   `json:"seats"`
}

const orderDetailColumns = `o.id, o.session_id, o.total_amount_cents, o.ordered_at,
	       f.title, a.number, s.starts_at, s.ends_at`

// GetByIDForUser returns one order of the given user. It yields
// ErrOrderNotFound when the order does not exist and ErrForbidden when
// it belongs to someone else.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, userID uint64) (*OrderDetail, error) {
	const q = `SELECT o.user_id, ` + orderDetailColumns + `
	           FROM orders o
	           JOIN film_sessions s ON s.id = o.session_id
	           JOIN films f ON f.id = s.film_id
	           JOIN auditoriums a ON a.id = s.auditorium_id
	           WHERE o.id = ?`
	var det OrderDetail
	var ownerID uint64
	var ends sql.NullTime
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(
		&ownerID, &det.ID, &det.SessionID, &det.TotalAmountCents, &det.OrderedAt,
		&det.FilmTitle, &det.Auditorium, &det.StartsAt, &ends,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}
	if ends.Valid {
		t := ends.Time.UTC()
		det.EndsAt = &t
	}
	seats, err := r.seatKeysForOrders(ctx, []uint64{det.ID})
	if err != nil {
		return nil, err
	}
	det.Seats = seats[det.ID]
	if det.Seats == nil {
		det.Seats = []string{}
	}
	return &det, nil
}

// ListByUser returns all orders of the given user, newest first, with
// session, film and seat details populated.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderDetail, error) {
	const q = `SELECT ` + orderDetailColumns + `
	           FROM orders o
	           JOIN film_sessions s ON s.id = o.session_id
	           JOIN films f ON f.id = s.film_id
	           JOIN auditoriums a ON a.id = s.auditorium_id
	           WHERE o.user_id = ?
	           ORDER BY o.ordered_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]OrderDetail, 0)
	index := make(map[uint64]int)
	ids := make([]uint64, 0)
	for rows.Next() {
		var det OrderDetail
		var ends sql.NullTime
		if err := rows.Scan(
			&det.ID, &det.SessionID, &det.TotalAmountCents, &det.OrderedAt,
			&det.FilmTitle, &det.Auditorium, &det.StartsAt, &ends,
		); err != nil {
			return nil, err
		}
		if ends.Valid {
			t := ends.Time.UTC()
			det.EndsAt = &t
		}
		det.Seats = []string{}
		index[det.ID] = len(details)
		ids = append(ids, det.ID)
		details = append(details, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	seats, err := r.seatKeysForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, keys := range seats {
		if i, ok := index[id]; ok {
			details[i].Seats = keys
		}
	}
	return details, nil
}

// seatKeysForOrders loads the "row-column" seat keys of several orders
// in a single query.
func (r *OrderRepo) seatKeysForOrders(ctx context.Context, orderIDs []uint64) (map[uint64][]string, error) {
	if len(orderIDs) == 0 {
		return map[uint64][]string{}, nil
	}
	placeholders := make([]string, 0, len(orderIDs))
	args := make([]interface{}, 0, len(orderIDs))
	for _, id := range orderIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT t.order_id, t.row_number, t.column_number
	      FROM tickets t
	      WHERE t.order_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY t.order_id, t.row_number, t.column_number`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64][]string)
	for rows.Next() {
		var orderID uint64
		var seat model.Seat
		if err := rows.Scan(&orderID, &seat.Row, &seat.Column); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], seat.Key())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
