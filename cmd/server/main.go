package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/config"
	"github.com/jeremyha1/cherry/internal/database"
	"github.com/jeremyha1/cherry/internal/handler"
	"github.com/jeremyha1/cherry/internal/middleware"
	"github.com/jeremyha1/cherry/internal/payment"
	"github.com/jeremyha1/cherry/internal/queue"
	"github.com/jeremyha1/cherry/internal/repository"
	"github.com/jeremyha1/cherry/internal/router"
	"github.com/jeremyha1/cherry/internal/storage"
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

	// Redis is optional; nil disables rate limiting and response caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	listings := repository.NewListingRepo(db)
	requests := repository.NewRequestRepo(db)
	messages := repository.NewMessageRepo(db)

	avatars := storage.NewAvatarStore(cfg.AvatarUploadURL, cfg.AvatarAPIKey, cfg.AvatarAPISecret, cfg.AvatarFolderName)
	payments := payment.NewCheckoutClient(cfg.CheckoutAPIURL, cfg.CheckoutSecret)

	authH := handler.NewAuthHandler(cfg, users, tokens, profiles)
	profileH := handler.NewProfileHandler(profiles, avatars)
	browseH := handler.NewBrowseHandler(listings)
	hostH := handler.NewHostHandler(listings)
	hostReqH := handler.NewHostRequestHandler(requests, listings)
	guestH := handler.NewGuestHandler(requests, listings)
	bookingH := handler.NewBookingHandler(requests, listings, messages, profiles)
	checkoutH := handler.NewCheckoutHandler(payments, requests, listings)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	browseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, profileH, browseCache)
	router.RegisterHost(e, hostH, hostReqH, cfg.JWTSecret)
	router.RegisterBookings(e, guestH, bookingH, profileH, checkoutH, cfg.JWTSecret)

	// Decision events land in logs/requests.log via the broker.
	go func() {
		if err := queue.StartDecisionConsumer(); err != nil {
			log.Printf("decision consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
