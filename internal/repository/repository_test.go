package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/cinesync/internal/model"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN. The
// schema from migrations/schema.sql must already be applied. Without
// the variable the integration tests are skipped.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database integration tests")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertTestFilm(t *testing.T, db *sql.DB, title string, durationMin uint32) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO films (title, duration_min, genre, country) VALUES (?, ?, '', '')",
		title, durationMin)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec("DELETE FROM films WHERE id=?", id) })
	return uint64(id)
}

func insertTestAuditorium(t *testing.T, db *sql.DB, rows []model.Row) uint64 {
	t.Helper()
	repo := NewAuditoriumRepo(db)
	hall := &model.Auditorium{Number: fmt.Sprintf("t-%d", time.Now().UnixNano())}
	require.NoError(t, repo.Create(context.Background(), hall))
	t.Cleanup(func() { _, _ = db.Exec("DELETE FROM auditoriums WHERE id=?", hall.ID) })
	for i := range rows {
		rows[i].AuditoriumID = hall.ID
	}
	require.NoError(t, repo.CreateRowsBulk(context.Background(), rows))
	return hall.ID
}

func insertTestUser(t *testing.T, db *sql.DB) uint64 {
	t.Helper()
	email := fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	res, err := db.Exec(
		"INSERT INTO users (email, password_hash, role) VALUES (?, 'x', 'CUSTOMER')", email)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec("DELETE FROM users WHERE id=?", id) })
	return uint64(id)
}

func cleanupSession(t *testing.T, db *sql.DB, id uint64) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM orders WHERE session_id=?", id)
		_, _ = db.Exec("DELETE FROM film_sessions WHERE id=?", id)
	})
}

func TestSessionSaveDerivesEndTime(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	filmID := insertTestFilm(t, db, "end-time film", 120)
	hallID := insertTestAuditorium(t, db, []model.Row{{RowNumber: 1, SeatCount: 4}})
	repo := NewSessionRepo(db)

	starts := time.Date(2030, 3, 1, 18, 0, 0, 0, time.UTC)
	s := &model.FilmSession{FilmID: filmID, AuditoriumID: hallID, StartsAt: starts, PriceCents: 1000}
	require.NoError(t, repo.Create(ctx, s))
	cleanupSession(t, db, s.ID)

	det, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, det.EndsAt)
	assert.Equal(t, starts.Add(2*time.Hour), *det.EndsAt)

	// moving the start moves the stored end, regardless of what was
	// persisted before
	s.StartsAt = starts.Add(24 * time.Hour)
	require.NoError(t, repo.Update(ctx, s))
	det, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, det.EndsAt)
	assert.Equal(t, s.StartsAt.Add(2*time.Hour), *det.EndsAt)
}

func TestSessionUnknownDurationHasNoEnd(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	filmID := insertTestFilm(t, db, "unknown duration", 0)
	hallID := insertTestAuditorium(t, db, []model.Row{{RowNumber: 1, SeatCount: 4}})
	repo := NewSessionRepo(db)

	s := &model.FilmSession{
		FilmID: filmID, AuditoriumID: hallID,
		StartsAt: time.Date(2030, 3, 1, 18, 0, 0, 0, time.UTC), PriceCents: 1000,
	}
	require.NoError(t, repo.Create(ctx, s))
	cleanupSession(t, db, s.ID)

	det, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, det.EndsAt)
}

func TestSessionCreateRejectsZeroPrice(t *testing.T) {
	db := openTestDB(t)
	filmID := insertTestFilm(t, db, "free film", 90)
	hallID := insertTestAuditorium(t, db, []model.Row{{RowNumber: 1, SeatCount: 4}})

	repo := NewSessionRepo(db)
	s := &model.FilmSession{FilmID: filmID, AuditoriumID: hallID, StartsAt: time.Now().UTC()}
	assert.ErrorIs(t, repo.Create(context.Background(), s), ErrInvalidPrice)
}

func TestTimetableWindow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	filmID := insertTestFilm(t, db, "window film", 100)
	hallID := insertTestAuditorium(t, db, []model.Row{{RowNumber: 1, SeatCount: 4}})
	repo := NewSessionRepo(db)

	base := time.Date(2031, 6, 10, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	mk := func(offset time.Duration) uint64 {
		s := &model.FilmSession{FilmID: filmID, AuditoriumID: hallID, StartsAt: base.Add(offset), PriceCents: 1000}
		require.NoError(t, repo.Create(ctx, s))
		cleanupSession(t, db, s.ID)
		return s.ID
	}
	past := mk(-time.Hour)
	soon := mk(48 * time.Hour)
	edge := mk(5 * 24 * time.Hour)
	far := mk(6 * 24 * time.Hour)

	ids := func(sessions []SessionDetail) map[uint64]bool {
		out := map[uint64]bool{}
		for _, s := range sessions {
			out[s.ID] = true
		}
		return out
	}

	nearest, err := repo.NearestTimetable(ctx)
	require.NoError(t, err)
	got := ids(nearest)
	assert.False(t, got[past])
	assert.True(t, got[soon])
	assert.True(t, got[edge], "window boundary is inclusive")
	assert.False(t, got[far])

	all, err := repo.AllTimetable(ctx)
	require.NoError(t, err)
	got = ids(all)
	assert.False(t, got[past])
	assert.True(t, got[soon])
	assert.True(t, got[far])

	// results come back ordered by start time
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].StartsAt.Before(all[i-1].StartsAt))
	}
}

func TestPlaceOrderAndOccupancy(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	filmID := insertTestFilm(t, db, "occupancy film", 100)
	hallID := insertTestAuditorium(t, db, []model.Row{{RowNumber: 1, SeatCount: 10}, {RowNumber: 2, SeatCount: 8}})
	userID := insertTestUser(t, db)

	sessions := NewSessionRepo(db)
	s := &model.FilmSession{FilmID: filmID, AuditoriumID: hallID, StartsAt: time.Date(2031, 1, 1, 20, 0, 0, 0, time.UTC), PriceCents: 1500}
	require.NoError(t, sessions.Create(ctx, s))
	cleanupSession(t, db, s.ID)

	orders := NewOrderRepo(db)
	placed, err := orders.PlaceOrder(ctx, s.ID, userID, s.PriceCents,
		[]model.Seat{{Row: 1, Column: 4}, {Row: 2, Column: 1}}, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, uint32(3000), placed.TotalAmountCents)
	require.Len(t, placed.Tickets, 2)

	tickets, err := orders.TicketsForSession(ctx, s.ID)
	require.NoError(t, err)
	keys := make([]string, 0, len(tickets))
	for _, tk := range tickets {
		keys = append(keys, tk.Seat().Key())
	}
	assert.Equal(t, []string{"1-4", "2-1"}, keys)
}

func TestPlaceOrderSeatConflictIsAtomic(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	filmID := insertTestFilm(t, db, "conflict film", 100)
	hallID := insertTestAuditorium(t, db, []model.Row{{RowNumber: 1, SeatCount: 10}})
	userID := insertTestUser(t, db)
	other := insertTestUser(t, db)

	sessions := NewSessionRepo(db)
	s := &model.FilmSession{FilmID: filmID, AuditoriumID: hallID, StartsAt: time.Date(2031, 1, 2, 20, 0, 0, 0, time.UTC), PriceCents: 1000}
	require.NoError(t, sessions.Create(ctx, s))
	cleanupSession(t, db, s.ID)

	orders := NewOrderRepo(db)
	_, err := orders.PlaceOrder(ctx, s.ID, userID, s.PriceCents,
		[]model.Seat{{Row: 1, Column: 3}}, time.Now().UTC())
	require.NoError(t, err)

	// overlaps on 1-3, also asks for the free 1-5: nothing may be written
	_, err = orders.PlaceOrder(ctx, s.ID, other, s.PriceCents,
		[]model.Seat{{Row: 1, Column: 5}, {Row: 1, Column: 3}}, time.Now().UTC())
	assert.ErrorIs(t, err, ErrSeatTaken)

	tickets, err := orders.TicketsForSession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 1, "failed booking must leave no partial tickets")
	assert.Equal(t, "1-3", tickets[0].Seat().Key())

	var orderCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders WHERE session_id=?", s.ID).Scan(&orderCount))
	assert.Equal(t, 1, orderCount, "failed booking must leave no order row")
}

func TestOrderOwnership(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	filmID := insertTestFilm(t, db, "ownership film", 100)
	hallID := insertTestAuditorium(t, db, []model.Row{{RowNumber: 1, SeatCount: 10}})
	owner := insertTestUser(t, db)
	stranger := insertTestUser(t, db)

	sessions := NewSessionRepo(db)
	s := &model.FilmSession{FilmID: filmID, AuditoriumID: hallID, StartsAt: time.Date(2031, 1, 3, 20, 0, 0, 0, time.UTC), PriceCents: 1000}
	require.NoError(t, sessions.Create(ctx, s))
	cleanupSession(t, db, s.ID)

	orders := NewOrderRepo(db)
	placed, err := orders.PlaceOrder(ctx, s.ID, owner, s.PriceCents,
		[]model.Seat{{Row: 1, Column: 1}, {Row: 1, Column: 2}}, time.Now().UTC())
	require.NoError(t, err)

	det, err := orders.GetByIDForUser(ctx, placed.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1", "1-2"}, det.Seats)
	assert.Equal(t, "ownership film", det.FilmTitle)

	_, err = orders.GetByIDForUser(ctx, placed.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = orders.GetByIDForUser(ctx, placed.ID+999999, owner)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	mine, err := orders.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, placed.ID, mine[0].ID)

	none, err := orders.ListByUser(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, none)
}
