package main // Entry point package

import (
	"context" // contexts bound the startup database work
	"log"     // Logging library
	"time"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/config" // Internal config loader
	"github.com/iliyamo/music-manager/internal/database"
	"github.com/iliyamo/music-manager/internal/handler"
	"github.com/iliyamo/music-manager/internal/mail"
	"github.com/iliyamo/music-manager/internal/middleware"
	"github.com/iliyamo/music-manager/internal/queue"
	"github.com/iliyamo/music-manager/internal/repository"
	"github.com/iliyamo/music-manager/internal/router" // Internal router setup
	"github.com/iliyamo/music-manager/internal/service"
	"github.com/iliyamo/music-manager/internal/token"
)

func main() {
	// Load a local .env file if present; real deployments set the
	// environment directly and this is a no-op there.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open MySQL and make sure the schema exists before serving traffic.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Redis backs the token denylist and the OTP store, so unlike the
	// cache and rate limiter it is not optional.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: connection failed")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	songs := repository.NewSongRepo(db)
	denylist := repository.NewDenylistRepo(rdb)
	otps := repository.NewOTPRepo(rdb)
	temps := repository.NewTempPasswordRepo(rdb)

	// Services.
	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTTLHours, cfg.RefreshTTLHours)
	publisher := queue.NewPublisher()
	authSvc := service.NewAuthService(users, denylist, tokens)
	userSvc := service.NewUserService(users, publisher, cfg.BcryptCost)
	recoverySvc := service.NewRecoveryService(users, otps, temps, publisher, cfg.BcryptCost)
	songSvc := service.NewSongService(songs, cfg.UploadDir)

	// Outbound mail is delivered asynchronously: handlers publish events to
	// RabbitMQ and this consumer drains the queue via SMTP.
	sender := mail.NewSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	go func() {
		if err := queue.StartEmailConsumer(sender); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = router.NewValidator()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authHandler := handler.NewAuthHandler(authSvc, userSvc, recoverySvc)
	songHandler := handler.NewSongHandler(songSvc)

	router.RegisterRoutes(e) // Register application routes
	router.RegisterAuth(e, authHandler, authSvc, limiter)
	router.RegisterSongs(e, songHandler, authSvc, cache)
	// Uploaded media is also reachable directly under its public file URL.
	e.Static(service.FilesRoutePrefix, cfg.UploadDir)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
