package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/temple-visitor-services/internal/config"
	"github.com/iliyamo/temple-visitor-services/internal/database"
	"github.com/iliyamo/temple-visitor-services/internal/handler"
	"github.com/iliyamo/temple-visitor-services/internal/middleware"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
	"github.com/iliyamo/temple-visitor-services/internal/router"
	"github.com/iliyamo/temple-visitor-services/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded (%v), using process environment", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	startup, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := database.Migrate(startup, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if cfg.SeedSampleData {
		seeded, err := database.Seed(startup, db, time.Now())
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("sample data seeded=%t", seeded)
	}
	cancel()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}
	pub := queue.NewPublisher(cfg.AMQPURL)
	clock := service.Clock(time.Now)

	temples := repository.NewTempleRepo(db)
	darshan := repository.NewDarshanRepo(db)
	bookings := repository.NewBookingRepo(db)
	visitors := repository.NewVisitorRepo(db)
	donations := repository.NewDonationRepo(db)
	pujas := repository.NewPujaRepo(db)
	prasadam := repository.NewPrasadamRepo(db)

	bookingSvc := service.NewBookingService(darshan, bookings, visitors, pub, clock)
	visitorSvc := service.NewVisitorService(visitors, bookings, donations, pujas, prasadam, pub, clock)
	adminSvc := service.NewAdminService(service.AdminDeps{
		Admins:    repository.NewAdminRepo(db),
		Dashboard: repository.NewDashboardRepo(db),
		Search:    repository.NewSearchRepo(db),
		Visitors:  visitors,
		Bookings:  bookings,
		Darshan:   darshan,
		Donations: donations,
		Pujas:     pujas,
		Prasadam:  prasadam,
	}, bookingSvc, service.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		AccessTTLMin: cfg.AccessTTLMin,
		BcryptCost:   cfg.BcryptCost,
	}, pub, clock)

	if cfg.AdminUser != "" {
		actx, acancel := context.WithTimeout(ctx, 10*time.Second)
		if err := adminSvc.EnsureAdmin(actx, cfg.AdminUser, cfg.AdminPassword); err != nil {
			log.Fatalf("admin account: %v", err)
		}
		acancel()
	}

	if cfg.ActivityConsumerEnabled && cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.AMQPURL, cfg.ActivityLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("activity-consumer: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("request id=%s %s %s status=%d latency=%s", v.RequestID, v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	router.Register(e, router.Handlers{
		DB:       db,
		Catalog:  handler.NewCatalogHandler(service.NewCatalogService(temples, darshan, donations, pujas, prasadam, clock)),
		Visitors: handler.NewVisitorHandler(visitorSvc),
		Bookings: handler.NewBookingHandler(bookingSvc, visitorSvc),
		Offerings: handler.NewOfferingHandler(
			service.NewDonationService(donations, visitors, pub, clock),
			service.NewPujaService(pujas, visitors, pub, clock),
			service.NewPrasadamService(prasadam, visitors, pub, clock),
			visitorSvc,
		),
		Admin:     handler.NewAdminHandler(adminSvc, cfg.DefaultTempleID),
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer scancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
