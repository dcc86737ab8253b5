package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	approveReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/approve_reservation"
	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	findAlternativeDatesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/find_alternative_dates"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getRequesterReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_requester_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getSettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_settings"
	listReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_reservations"
	rejectReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/reject_reservation"
	updateSettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_settings"
	validateReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/validate_reservation"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	alternativesCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/alternatives"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ReservationService/internal/notification"
	maintenanceService "github.com/m04kA/SMC-ReservationService/internal/service/maintenance"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	findAlternativeDatesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/find_alternative_dates"
	getAvailableSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
	validateReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/validate_reservation"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// cache кэш альтернативных дат (в памяти или redis)
type cache interface {
	Get(ctx context.Context, key string) ([]domain.AlternativeDate, bool)
	Set(ctx context.Context, key string, dates []domain.AlternativeDate)
	Invalidate(ctx context.Context)
	Purge(ctx context.Context) int
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Календарь в часовом поясе системы
	cal, err := availability.NewCalendar(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone: %v", err)
	}
	log.Info("Using timezone %s", cfg.App.Timezone)

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Кэш альтернативных дат
	var alternatives cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()
		alternatives = alternativesCache.NewRedisCache(redisClient, cfg.App.CacheTTL(), cfg.Redis.Prefix, cal.Location(), log)
		log.Info("Alternatives cache: redis (addr=%s, prefix=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.Prefix, cfg.App.CacheTTL())
	} else {
		alternatives = alternativesCache.NewMemoryCache(cfg.App.CacheTTL(), cfg.App.AlternativesCacheSize)
		log.Info("Alternatives cache: in-memory (size=%d, ttl=%s)", cfg.App.AlternativesCacheSize, cfg.App.CacheTTL())
	}

	// Уведомления
	var sender notification.Sender
	switch cfg.Notifications.Sender {
	case config.SenderSendGrid:
		sendgridSender, err := notification.NewSendGridSender(
			cfg.Notifications.APIKey,
			cfg.Notifications.FromAddress,
			cfg.Notifications.FromName,
		)
		if err != nil {
			log.Fatal("Failed to initialize sendgrid sender: %v", err)
		}
		sender = sendgridSender
	default:
		sender = notification.NewLogSender(log)
	}
	dispatcher := notification.NewDispatcher(
		sender,
		cfg.Notifications.Workers,
		cfg.Notifications.QueueSize,
		metricsCollector,
		log,
	)
	log.Info("Notifications: sender=%s, workers=%d, queue=%d",
		cfg.Notifications.Sender, cfg.Notifications.Workers, cfg.Notifications.QueueSize)

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(settingsRepository, cal, alternatives, log)
	validator := validation.NewValidator(cal, log)
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		settingsSvc,
		cal,
		dispatcher,
		alternatives,
		metricsCollector,
		txMgr,
		log,
	)

	// Инициализируем use cases
	findAlternativeDatesUseCase := findAlternativeDatesUC.NewUseCase(
		reservationRepository,
		settingsSvc,
		validator,
		alternatives,
		metricsCollector,
		findAlternativeDatesUC.Options{
			HorizonDays: cfg.App.AlternativesHorizonDays,
			Concurrency: cfg.App.AlternativesConcurrency,
		},
		log,
	)

	validateReservationUseCase := validateReservationUC.NewUseCase(
		reservationRepository,
		settingsSvc,
		validator,
		findAlternativeDatesUseCase,
		metricsCollector,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		settingsSvc,
		validator,
		findAlternativeDatesUseCase,
		dispatcher,
		alternatives,
		metricsCollector,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		settingsSvc,
		cal,
		log,
	)

	// Периодическое обслуживание
	var expirer maintenanceService.StaleExpirer
	if cfg.App.ExpireStalePending {
		expirer = reservationSvc
	}
	maintenance := maintenanceService.NewService(expirer, alternatives, log)

	scheduler := cron.New(cron.WithLocation(cal.Location()))
	if _, err := scheduler.AddFunc(cfg.App.MaintenanceSchedule, maintenance.Run); err != nil {
		log.Fatal("Invalid maintenance schedule %q: %v", cfg.App.MaintenanceSchedule, err)
	}
	scheduler.Start()
	log.Info("Maintenance scheduled: %s (expire stale pending=%t)",
		cfg.App.MaintenanceSchedule, cfg.App.ExpireStalePending)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	validateReservation := validateReservationHandler.NewHandler(validateReservationUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	findAlternativeDates := findAlternativeDatesHandler.NewHandler(findAlternativeDatesUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getRequesterReservations := getRequesterReservationsHandler.NewHandler(reservationSvc, log)
	cancelByUser := cancelReservationHandler.NewHandler(reservationSvc, domain.ActorUser, log)
	cancelByAdmin := cancelReservationHandler.NewHandler(reservationSvc, domain.ActorAdmin, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	approveReservation := approveReservationHandler.NewHandler(reservationSvc, log)
	rejectReservation := rejectReservationHandler.NewHandler(reservationSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Занятость слотов на день
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание для формы бронирования
	api.HandleFunc("/settings/time-slots", getSettings.HandleTimeSlots).Methods(http.MethodGet)

	// --- Бронирования ---
	// Проверка заявки без сохранения
	api.HandleFunc("/reservations/validate", validateReservation.Handle).Methods(http.MethodPost)

	// Альтернативные даты для того же интервала
	api.HandleFunc("/reservations/alternatives", findAlternativeDates.Handle).Methods(http.MethodGet)

	// Создание заявки
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Бронирования заявителя
	api.HandleFunc("/reservations", getRequesterReservations.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	api.HandleFunc("/reservations/{reservationId:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)

	// Отмена своего бронирования
	api.HandleFunc("/reservations/{reservationId:[0-9]+}/cancel", cancelByUser.Handle).Methods(http.MethodPatch)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	admin.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{reservationId:[0-9]+}/approve", approveReservation.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reservations/{reservationId:[0-9]+}/reject", rejectReservation.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reservations/{reservationId:[0-9]+}/cancel", cancelByAdmin.Handle).Methods(http.MethodPatch)

	// --- Настройки ---
	admin.HandleFunc("/settings/system", getSettings.HandleSystem).Methods(http.MethodGet)
	admin.HandleFunc("/settings/system", updateSettings.HandleSystem).Methods(http.MethodPut)
	admin.HandleFunc("/settings/time-slots", updateSettings.HandleTimeSlots).Methods(http.MethodPut)

	// CORS, access log и восстановление после паники
	var handler http.Handler = r
	if len(cfg.Server.AllowedOrigins) > 0 {
		handler = gorillaHandlers.CORS(
			gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
			gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions}),
			gorillaHandlers.AllowedHeaders([]string{"Content-Type", middleware.AdminTokenHeader}),
		)(handler)
		log.Info("CORS enabled for %v", cfg.Server.AllowedOrigins)
	}
	handler = gorillaHandlers.RecoveryHandler(gorillaHandlers.PrintRecoveryStack(true))(handler)
	handler = gorillaHandlers.CombinedLoggingHandler(log.Writer(), handler)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего прохода обслуживания
	<-scheduler.Stop().Done()

	// Доставляем уведомления из очереди
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error("Notification queue not drained: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
