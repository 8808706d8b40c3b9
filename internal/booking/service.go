package booking

import (
	"context"
	"time"

	"github.com/cinesync/cinesync/internal/model"
)

// OrderStore is the slice of the persistence layer the booking service
// depends on. PlaceOrder must be atomic: either one order plus one
// ticket per seat are durably written, or nothing is, and a seat lost
// to a concurrent booking must surface as repository.ErrSeatTaken.
type OrderStore interface {
	PlaceOrder(ctx context.Context, sessionID, userID uint64, priceCents uint32, seats []model.Seat, placedAt time.Time) (*model.Order, error)
}

// Service orchestrates a booking submission: layout validation first,
// then the atomic order/ticket write. It never performs partial
// writes; a *ValidationError means the store was not touched at all.
type Service struct {
	store OrderStore
	now   func() time.Time
}

// NewService constructs a booking Service over the given store.
func NewService(store OrderStore) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Book validates the requested seats against the auditorium layout and
// places the order for the given session and user. The price per seat
// is taken from the session; the order timestamp is the current time.
func (s *Service) Book(ctx context.Context, sessionID, userID uint64, priceCents uint32, requested []model.Seat, layout []model.Row) (*model.Order, error) {
	seats, err := ValidateSelection(requested, layout)
	if err != nil {
		return nil, err
	}
	return s.store.PlaceOrder(ctx, sessionID, userID, priceCents, seats, s.now())
}
