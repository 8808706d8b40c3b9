// Package booking implements the seat reservation path: validating a
// submitted seat selection against an auditorium layout and turning it
// into an order with one ticket per seat inside a single atomic unit.
package booking

import (
	"fmt"

	"github.com/cinesync/cinesync/internal/model"
)

// ValidationError reports an invalid seat selection. Its message is
// safe to render back to the user on the booking form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidateSelection checks a submitted seat selection against an
// auditorium's row layout. Every seat must reference a row present in
// the layout and a column within that row's seat count; the selection
// must be non-empty and free of duplicates. On success the seats are
// returned in submission order.
//
// Existing ticket occupancy is deliberately not consulted here; that
// check is re-performed inside the booking transaction so two
// submissions racing past page render cannot both win a seat.
func ValidateSelection(seats []model.Seat, rows []model.Row) ([]model.Seat, error) {
	if len(seats) == 0 {
		return nil, validationErrorf("select at least one seat")
	}
	seatCount := make(map[uint32]uint32, len(rows))
	for _, row := range rows {
		seatCount[row.RowNumber] = row.SeatCount
	}
	seen := make(map[string]struct{}, len(seats))
	valid := make([]model.Seat, 0, len(seats))
	for _, seat := range seats {
		count, ok := seatCount[seat.Row]
		if !ok {
			return nil, validationErrorf("row %d does not exist in this auditorium", seat.Row)
		}
		if seat.Column < 1 || seat.Column > count {
			return nil, validationErrorf("seat %s does not exist in this auditorium", seat.Key())
		}
		if _, dup := seen[seat.Key()]; dup {
			return nil, validationErrorf("seat %s selected twice", seat.Key())
		}
		seen[seat.Key()] = struct{}{}
		valid = append(valid, seat)
	}
	return valid, nil
}
