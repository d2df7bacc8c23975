package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-theater-booking/internal/config"
	"github.com/iliyamo/movie-theater-booking/internal/database"
	"github.com/iliyamo/movie-theater-booking/internal/handler"
	"github.com/iliyamo/movie-theater-booking/internal/queue"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
	"github.com/iliyamo/movie-theater-booking/internal/router"
	"github.com/iliyamo/movie-theater-booking/internal/service"
	"github.com/iliyamo/movie-theater-booking/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("run migrations: %v", err)
	}
	cancel()

	// Repositories.
	movies := repository.NewMovieRepo(db)
	theaters := repository.NewTheaterRepo(db)
	seats := repository.NewSeatRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	availability := repository.NewSeatAvailabilityRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := users.EnsureSeedAdmin(seedCtx, cfg.AdminEmail, hash); err != nil {
			log.Printf("seed admin: %v", err)
		}
		seedCancel()
	}

	// Services.
	publisher := queue.NewPublisher(cfg.AMQPURL)
	scheduler := service.NewShowtimeScheduler(db, movies, theaters, seats, showtimes, availability, bookings)
	orchestrator := service.NewBookingOrchestrator(db, bookings, showtimes, seats, availability, users, publisher)
	finder := service.NewAvailableSeatFinder(showtimes, availability)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	movieH := handler.NewMovieHandler(movies)
	theaterH := handler.NewTheaterHandler(theaters, seats)
	showtimeH := handler.NewShowtimeHandler(scheduler, showtimes)
	bookingH := handler.NewBookingHandler(orchestrator)
	finderH := handler.NewSeatFinderHandler(finder)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	go func() {
		if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, rdb, movieH, theaterH, showtimeH, finderH)
	router.RegisterCustomer(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, cfg.JWTSecret, movieH, theaterH, showtimeH, bookingH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
