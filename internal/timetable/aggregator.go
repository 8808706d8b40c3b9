// Package timetable groups upcoming sessions for display: first by
// calendar date, then by film, with each film's sessions ordered by
// start time. It is a pure read-side transform over the schedule
// store's output.
package timetable

import (
	"sort"

	"github.com/cinesync/cinesync/internal/repository"
)

// FilmGroup is one film's sessions on a given day, sorted by start
// time ascending.
type FilmGroup struct {
	FilmID   uint64                     `json:"film_id"`
	Title    string                     `json:"title"`
	Sessions []repository.SessionDetail `json:"sessions"`
}

// DayGroup is all sessions of one calendar date, grouped per film.
type DayGroup struct {
	Date  string      `json:"date"` // YYYY-MM-DD, derived from starts_at (UTC)
	Films []FilmGroup `json:"films"`
}

// Group builds the two-level date -> film -> sessions grouping in a
// single pass. The input is expected sorted by start time ascending
// (the shape NearestTimetable and AllTimetable return), which makes
// days and films come out in chronological first-seen order; each film
// bucket is sorted explicitly afterwards.
func Group(sessions []repository.SessionDetail) []DayGroup {
	days := make([]DayGroup, 0)
	dayIndex := make(map[string]int)
	filmIndex := make(map[string]map[uint64]int)

	for _, s := range sessions {
		date := s.StartsAt.UTC().Format("2006-01-02")
		di, ok := dayIndex[date]
		if !ok {
			di = len(days)
			dayIndex[date] = di
			filmIndex[date] = make(map[uint64]int)
			days = append(days, DayGroup{Date: date, Films: []FilmGroup{}})
		}
		fi, ok := filmIndex[date][s.FilmID]
		if !ok {
			fi = len(days[di].Films)
			filmIndex[date][s.FilmID] = fi
			days[di].Films = append(days[di].Films, FilmGroup{FilmID: s.FilmID, Title: s.FilmTitle})
		}
		days[di].Films[fi].Sessions = append(days[di].Films[fi].Sessions, s)
	}

	for di := range days {
		for fi := range days[di].Films {
			group := days[di].Films[fi].Sessions
			sort.SliceStable(group, func(a, b int) bool {
				return group[a].StartsAt.Before(group[b].StartsAt)
			})
		}
	}
	return days
}
