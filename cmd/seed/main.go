// Command seed populates a development database with a small film
// catalog, two auditoriums and a week of sessions. It is idempotent
// enough for local use: run it against an empty schema.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinesync/cinesync/internal/config"
	"github.com/cinesync/cinesync/internal/database"
	"github.com/cinesync/cinesync/internal/model"
	"github.com/cinesync/cinesync/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	films := []model.Film{
		{Title: "Solaris", DurationMin: 167, Genre: "sci-fi", Country: "USSR"},
		{Title: "Stalker", DurationMin: 162, Genre: "sci-fi", Country: "USSR"},
		{Title: "Paris, Texas", DurationMin: 145, Genre: "drama", Country: "West Germany"},
		// duration unknown on purpose: its sessions get no end time
		{Title: "Untitled Preview", DurationMin: 0, Genre: "mystery", Country: ""},
	}
	filmIDs := make([]uint64, 0, len(films))
	for _, f := range films {
		id, err := insertFilm(ctx, db, f)
		if err != nil {
			log.Fatalf("seed film %q: %v", f.Title, err)
		}
		filmIDs = append(filmIDs, id)
	}
	log.Printf("seeded %d films", len(filmIDs))

	auditoriums := repository.NewAuditoriumRepo(db)
	hallIDs := make([]uint64, 0, 2)
	layouts := [][]model.Row{
		{{RowNumber: 1, SeatCount: 10}, {RowNumber: 2, SeatCount: 10}, {RowNumber: 3, SeatCount: 8}},
		{{RowNumber: 1, SeatCount: 12}, {RowNumber: 2, SeatCount: 12}, {RowNumber: 3, SeatCount: 12}, {RowNumber: 4, SeatCount: 6}},
	}
	for i, layout := range layouts {
		hall := &model.Auditorium{Number: string(rune('1' + i))}
		if err := auditoriums.Create(ctx, hall); err != nil {
			log.Fatalf("seed auditorium %s: %v", hall.Number, err)
		}
		for j := range layout {
			layout[j].AuditoriumID = hall.ID
		}
		if err := auditoriums.CreateRowsBulk(ctx, layout); err != nil {
			log.Fatalf("seed rows for auditorium %s: %v", hall.Number, err)
		}
		hallIDs = append(hallIDs, hall.ID)
	}
	log.Printf("seeded %d auditoriums", len(hallIDs))

	sessions := repository.NewSessionRepo(db)
	start := time.Now().UTC().Truncate(time.Hour).Add(time.Hour)
	count := 0
	for day := 0; day < 7; day++ {
		for i, filmID := range filmIDs {
			s := &model.FilmSession{
				FilmID:       filmID,
				AuditoriumID: hallIDs[i%len(hallIDs)],
				StartsAt:     start.AddDate(0, 0, day).Add(time.Duration(3*i) * time.Hour),
				PriceCents:   1200 + uint32(i)*300,
			}
			// Create derives ends_at from the film's duration.
			if err := sessions.Create(ctx, s); err != nil {
				log.Fatalf("seed session (film %d, day %d): %v", filmID, day, err)
			}
			count++
		}
	}
	log.Printf("seeded %d sessions", count)
}

func insertFilm(ctx context.Context, db *sql.DB, f model.Film) (uint64, error) {
	const q = `INSERT INTO films (title, duration_min, genre, country) VALUES (?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, q, f.Title, f.DurationMin, f.Genre, f.Country)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
