package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/cinesync/internal/repository"
)

func session(id, filmID uint64, title string, at time.Time) repository.SessionDetail {
	return repository.SessionDetail{ID: id, FilmID: filmID, FilmTitle: title, StartsAt: at}
}

func TestGroupByDateThenFilm(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	input := []repository.SessionDetail{
		session(1, 10, "Film A", day1.Add(10*time.Hour)),
		session(2, 20, "Film B", day1.Add(12*time.Hour)),
		session(3, 10, "Film A", day2.Add(14*time.Hour)),
	}

	days := Group(input)
	require.Len(t, days, 2)

	assert.Equal(t, "2024-06-01", days[0].Date)
	require.Len(t, days[0].Films, 2)
	assert.Equal(t, "Film A", days[0].Films[0].Title)
	require.Len(t, days[0].Films[0].Sessions, 1)
	assert.Equal(t, uint64(1), days[0].Films[0].Sessions[0].ID)
	assert.Equal(t, "Film B", days[0].Films[1].Title)
	require.Len(t, days[0].Films[1].Sessions, 1)

	assert.Equal(t, "2024-06-02", days[1].Date)
	require.Len(t, days[1].Films, 1)
	assert.Equal(t, uint64(10), days[1].Films[0].FilmID)
}

func TestGroupSortsFilmSessionsByStart(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// A film's sessions interleaved with another film's still come out
	// sorted inside their own bucket.
	input := []repository.SessionDetail{
		session(1, 10, "Film A", day.Add(10*time.Hour)),
		session(2, 20, "Film B", day.Add(11*time.Hour)),
		session(3, 10, "Film A", day.Add(16*time.Hour)),
		session(4, 10, "Film A", day.Add(13*time.Hour)),
	}

	days := Group(input)
	require.Len(t, days, 1)
	require.Len(t, days[0].Films, 2)

	got := days[0].Films[0].Sessions
	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, uint64(4), got[1].ID)
	assert.Equal(t, uint64(3), got[2].ID)
}

func TestGroupEmptyInput(t *testing.T) {
	assert.Empty(t, Group(nil))
}
