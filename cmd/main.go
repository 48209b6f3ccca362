package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/api"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/config"
	sessionRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/session"
	availabilityServiceClient "github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
	reservationServiceClient "github.com/m04kA/SMC-SlotScheduler/internal/integrations/reservationservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SlotScheduler...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	loc := cfg.Scheduler.Location()
	timeProvider := &session.RealTimeProvider{Location: loc}
	log.Info("Venue timezone: %s", loc.String())

	// Инициализируем интеграционных клиентов
	availabilityClient := availabilityServiceClient.NewClient(
		cfg.AvailabilityService.URL,
		time.Duration(cfg.AvailabilityService.Timeout)*time.Second,
		log,
	)
	reservationClient := reservationServiceClient.NewClient(
		cfg.ReservationService.URL,
		time.Duration(cfg.ReservationService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (AvailabilityService=%s timeout=%ds, ReservationService=%s timeout=%ds)",
		cfg.AvailabilityService.URL, cfg.AvailabilityService.Timeout,
		cfg.ReservationService.URL, cfg.ReservationService.Timeout)

	// Хранилище сессий с очисткой по TTL
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sessionRepository := sessionRepo.NewRepository[*session.Session](
		time.Duration(cfg.Sessions.TTLMinutes)*time.Minute,
		timeProvider,
		metricsCollector,
		log,
	)
	go sessionRepository.Run(ctx, time.Duration(cfg.Sessions.SweepIntervalSeconds)*time.Second)

	// Инициализируем менеджер сессий
	manager := session.NewManager(
		sessionRepository,
		session.Deps{
			AvailabilityClient: availabilityClient,
			ReservationClient:  reservationClient,
			TimeProvider:       timeProvider,
			Metrics:            metricsCollector,
			Logger:             log,
		},
		session.Options{
			Grace:     cfg.Scheduler.Grace(),
			OpenHour:  cfg.Scheduler.OpenHour,
			CloseHour: cfg.Scheduler.CloseHour,
			Location:  loc,
		},
	)

	// Настраиваем роутер
	routerOpts := api.Options{
		Location:    loc,
		Metrics:     metricsCollector,
		MetricsPath: cfg.Metrics.Path,
	}
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleMinutes)*time.Minute,
			cfg.RateLimit.TrustProxy,
			log,
		)
		go rateLimiter.Run(ctx, time.Duration(cfg.Sessions.SweepIntervalSeconds)*time.Second)
		routerOpts.RateLimiter = rateLimiter
		log.Info("Rate limit enabled: %d req/min, burst=%d, trust_proxy=%t",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxy)
	}
	r := api.NewRouter(manager, log, routerOpts)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully")
}
