package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"courtly/internal/config"
	"courtly/internal/database"
	"courtly/internal/domain/billing"
	"courtly/internal/domain/booking"
	"courtly/internal/domain/court"
	"courtly/internal/domain/customer"
	"courtly/internal/domain/membership"
	"courtly/internal/domain/staff"
	"courtly/internal/middleware"
	"courtly/internal/pkg/events"
	jwtsvc "courtly/internal/pkg/jwt"
	"courtly/internal/pkg/logger"
	"courtly/internal/pkg/metrics"
	"courtly/internal/schema"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.Init(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		zl.Fatal("timezone", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db, schema.Models()...); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	hub := events.NewHub(middleware.OriginAllowed(cfg.CORSAllowedOrigins))
	publisher := events.Fanout{hub}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			zl.Fatal("rabbitmq", zap.Error(err))
		}
		defer func() { _ = amqpPub.Close() }()
		publisher = append(publisher, amqpPub)
		zl.Info("publishing events to rabbitmq", zap.String("exchange", cfg.AMQPExchange))
	}

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	courtService := court.NewService(court.NewRepository(db), loc)
	customerService := customer.NewService(customer.NewRepository(db))
	bookingService := booking.NewService(db, booking.NewRepository(db), billing.NewRecorder(), publisher, booking.Config{
		Location:           loc,
		CancellationCutoff: cfg.CancellationCutoff,
		MaxBookingDays:     cfg.MaxBookingDays,
	})
	billingService := billing.NewService(billing.NewRepository(db), loc)
	staffService := staff.NewService(staff.NewRepository(db), tokens)
	membershipService := membership.NewService(db, membership.NewRepository(db), publisher, loc)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		metrics.Middleware(),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(),
	)

	r.GET("/health", healthHandler(db))
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(tokens))
	{
		staff.NewHandler(staffService).RegisterRoutes(v1, protected, middleware.AdminOnly())
		court.NewHandler(courtService).RegisterRoutes(protected, middleware.AdminOnly())
		customer.NewHandler(customerService).RegisterRoutes(protected)
		booking.NewHandler(bookingService).RegisterRoutes(protected)
		billing.NewHandler(billingService).RegisterRoutes(protected)
		membership.NewHandler(membershipService).RegisterRoutes(protected)
		protected.GET("/ws/slots", hub.Handle)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("server starting", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
