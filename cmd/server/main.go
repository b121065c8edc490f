package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"logi-events/config"
	"logi-events/internal/auth"
	"logi-events/internal/cache"
	"logi-events/internal/clock"
	"logi-events/internal/database"
	"logi-events/internal/database/migrations"
	"logi-events/internal/handler"
	"logi-events/internal/notify"
	"logi-events/internal/queue"
	"logi-events/internal/repository"
	"logi-events/internal/service"
	"logi-events/internal/worker"
	"logi-events/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to an optional .env file")
	addr := pflag.String("addr", "", "listen address, overrides SERVER_HOST and PORT")
	migrate := pflag.Bool("migrate", true, "apply embedded migrations on boot")
	pflag.Parse()

	log := logger.WithComponent("server")
	defer logger.Sync()

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.Fatal("Failed to load env file", zap.String("path", *envFile), zap.Error(err))
	}
	cfg := config.LoadConfig()
	logger.SetLevel(cfg.LogLevel)

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if *migrate {
		if err := migrations.Apply(context.Background(), pool); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notificationQueue, err := newNotificationQueue(cfg.Notification, rdb)
	if err != nil {
		log.Fatal("Failed to initialize notification queue", zap.Error(err))
	}

	sysClock := clock.NewSystem()
	txManager := database.NewTxManager(pool)

	eventRepository := repository.NewEventRepository(pool)
	ticketRepository := repository.NewTicketRepository(pool)
	userRepository := repository.NewUserRepository(pool)
	otpRepository := repository.NewOTPRepository()

	dispatcher := notify.NewQueueDispatcher(notificationQueue, sysClock)
	limiter := cache.NewRedisOTPRateLimiter(rdb)
	otpStore := service.NewOTPStore(txManager, otpRepository, sysClock, cfg.OTP)
	gate := service.NewOTPGate(txManager, otpStore, limiter, cfg.OTP)
	ledger := service.NewCapacityLedger(eventRepository)

	eventService := service.NewEventService(eventRepository, ticketRepository, userRepository)
	reservationService := service.NewReservationService(gate, ledger, dispatcher, eventRepository, ticketRepository, txManager)
	deletionService := service.NewDeletionService(gate, dispatcher, eventRepository, userRepository, cfg.OTP)

	notificationWorker := worker.NewNotificationWorker(notify.NewLogSender(), notificationQueue, cfg.Notification.MaxAttempts)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start notification worker", zap.Error(err))
	}

	router := handler.NewRouter(handler.RouterDeps{
		Guard:              auth.NewGuard(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		EventHandler:       handler.NewEventHandler(eventService),
		ReservationHandler: handler.NewReservationHandler(reservationService),
		DeletionHandler:    handler.NewDeletionHandler(deletionService),
	})

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", listenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func newNotificationQueue(cfg config.NotificationConfig, rdb *redis.Client) (queue.NotificationQueue, error) {
	if cfg.Driver == "memory" {
		return queue.NewMemoryNotificationQueue(cfg.BufferSize), nil
	}
	return queue.NewRedisStreamNotificationQueue(rdb, "", &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime: cfg.ClaimMinIdle,
		MaxRetryCount:    cfg.MaxAttempts,
	})
}
