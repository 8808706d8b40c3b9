package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinesync/cinesync/internal/booking"
	"github.com/cinesync/cinesync/internal/config"
	"github.com/cinesync/cinesync/internal/database"
	"github.com/cinesync/cinesync/internal/handler"
	"github.com/cinesync/cinesync/internal/middleware"
	"github.com/cinesync/cinesync/internal/queue"
	"github.com/cinesync/cinesync/internal/repository"
	"github.com/cinesync/cinesync/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil client disables the rate limiter and response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	films := repository.NewFilmRepo(db)
	auditoriums := repository.NewAuditoriumRepo(db)
	sessions := repository.NewSessionRepo(db)
	orders := repository.NewOrderRepo(db)

	bookingSvc := booking.NewService(orders)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	timetableH := handler.NewTimetableHandler(sessions)
	filmH := handler.NewFilmHandler(films)
	sessionH := handler.NewSessionHandler(sessions, auditoriums, orders, bookingSvc)
	orderH := handler.NewOrderHandler(orders)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, timetableH, filmH,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCustomer(e, sessionH, orderH, cfg.JWTSecret)

	// Confirmation events are consumed in-process; the consumer
	// reconnects on its own if the broker goes away.
	go queue.StartOrderConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
