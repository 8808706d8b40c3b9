package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinesync/cinesync/internal/model"
)

// AuditoriumRepo manages persistence for auditoriums and their seating
// rows. Row numbers are unique per auditorium; the layout a session's
// seat selection is validated against comes from RowsFor.
type AuditoriumRepo struct {
	db *sql.DB
}

// NewAuditoriumRepo constructs an AuditoriumRepo with the given DB handle.
func NewAuditoriumRepo(db *sql.DB) *AuditoriumRepo { return &AuditoriumRepo{db: db} }

// GetByID retrieves an auditorium by its ID. It returns
// ErrAuditoriumNotFound when no matching row exists.
func (r *AuditoriumRepo) GetByID(ctx context.Context, id uint64) (*model.Auditorium, error) {
	const q = `SELECT id, number, created_at, updated_at FROM auditoriums WHERE id = ?`
	var a model.Auditorium
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Number, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuditoriumNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an auditorium and populates its generated ID.
func (r *AuditoriumRepo) Create(ctx context.Context, a *model.Auditorium) error {
	const q = `INSERT INTO auditoriums (number) VALUES (?)`
	res, err := r.db.ExecContext(ctx, q, a.Number)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// CreateRowsBulk inserts the seating rows of an auditorium in a single
// statement. Passing an empty slice has no effect and returns nil.
func (r *AuditoriumRepo) CreateRowsBulk(ctx context.Context, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}
	// row_number is backtick-quoted: ROW_NUMBER is reserved in MySQL 8.
	query := "INSERT INTO auditorium_rows (auditorium_id, `row_number`, seat_count) VALUES "
	args := make([]interface{}, 0, len(rows)*3)
	for i, row := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, row.AuditoriumID, row.RowNumber, row.SeatCount)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// RowsFor returns the seating rows of an auditorium ordered by row
// number ascending. An auditorium without rows yields an empty slice.
func (r *AuditoriumRepo) RowsFor(ctx context.Context, auditoriumID uint64) ([]model.Row, error) {
	const q = "SELECT id, auditorium_id, `row_number`, seat_count " +
		"FROM auditorium_rows WHERE auditorium_id = ? ORDER BY `row_number` ASC"
	rows, err := r.db.QueryContext(ctx, q, auditoriumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	layout := make([]model.Row, 0)
	for rows.Next() {
		var row model.Row
		if err := rows.Scan(&row.ID, &row.AuditoriumID, &row.RowNumber, &row.SeatCount); err != nil {
			return nil, err
		}
		layout = append(layout, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return layout, nil
}
