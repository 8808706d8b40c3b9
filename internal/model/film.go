package model

import "time"

// Film is a read-only catalog record. The booking core only depends on
// DurationMin to derive session end times; the remaining fields are
// display data.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – film title.
//  DurationMin – running time in minutes; 0 means unknown.
//  Genre       – display-only genre label.
//  Country     – display-only country label.
//  CreatedAt   – creation timestamp.
type Film struct {
	ID          uint64    // films.id
	Title       string    // films.title
	DurationMin uint32    // films.duration_min
	Genre       string    // films.genre
	Country     string    // films.country
	CreatedAt   time.Time // films.created_at
}
