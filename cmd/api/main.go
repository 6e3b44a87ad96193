package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/doctorsportal/booking-api/internal/config"
	"github.com/doctorsportal/booking-api/internal/email"
	"github.com/doctorsportal/booking-api/internal/handler"
	authHandler "github.com/doctorsportal/booking-api/internal/handler/auth"
	bookingHandler "github.com/doctorsportal/booking-api/internal/handler/booking"
	catalogHandler "github.com/doctorsportal/booking-api/internal/handler/catalog"
	doctorHandler "github.com/doctorsportal/booking-api/internal/handler/doctor"
	userHandler "github.com/doctorsportal/booking-api/internal/handler/user"
	"github.com/doctorsportal/booking-api/internal/middleware"
	"github.com/doctorsportal/booking-api/internal/repository/postgres"
	"github.com/doctorsportal/booking-api/internal/router"
	authService "github.com/doctorsportal/booking-api/internal/service/auth"
	bookingService "github.com/doctorsportal/booking-api/internal/service/booking"
	catalogService "github.com/doctorsportal/booking-api/internal/service/catalog"
	doctorService "github.com/doctorsportal/booking-api/internal/service/doctor"
	userService "github.com/doctorsportal/booking-api/internal/service/user"
	"github.com/doctorsportal/booking-api/pkg/auth"
	"github.com/doctorsportal/booking-api/pkg/lock"
	"github.com/doctorsportal/booking-api/pkg/logger"
	"github.com/doctorsportal/booking-api/pkg/metrics"
	"github.com/doctorsportal/booking-api/pkg/payment"
	"github.com/doctorsportal/booking-api/pkg/validator"
)

func main() {
	logger.Setup()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("doctorsportal", "booking")

	// Initialize repositories
	serviceRepo := postgres.NewServiceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db, appMetrics)
	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)

	// Reservation attempts for one (treatment, date) pair serialize
	// through a single lock owner: Redis when configured, an in-process
	// keyed mutex otherwise.
	var locker lock.Locker
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		locker = lock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTLSec)*time.Second)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis slot locking")
	} else {
		locker = lock.NewKeyedMutex()
		log.Info().Msg("using in-process slot locking")
	}

	var mailer email.Service = email.NoopService{}
	if cfg.SMTP.Host != "" {
		mailer = email.NewService(cfg.SMTP)
	}

	intents := payment.NewClient(payment.Config{
		BaseURL: cfg.Payment.BaseURL,
		APIKey:  cfg.Payment.APIKey,
	})

	// Initialize services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(userRepo, jwtSvc)
	userSvc := userService.NewService(userRepo)
	catalogSvc := catalogService.NewService(serviceRepo, bookingRepo)
	bookingSvc := bookingService.NewService(
		bookingRepo, serviceRepo, locker, intents, mailer, appMetrics, cfg.Payment.Currency,
	)
	doctorSvc := doctorService.NewService(doctorRepo)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, userSvc)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		catalogHandler.NewHandler(catalogSvc),
		bookingHandler.NewHandler(bookingSvc),
		userHandler.NewHandler(userSvc, authSvc),
		doctorHandler.NewHandler(doctorSvc),
		authHandler.NewHandler(authSvc),
		h,
		router.Config{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "booking_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
