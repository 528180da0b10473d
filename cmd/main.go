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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	amendBookingHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/amend_booking"
	beginHoldHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/begin_hold"
	cancelBookingHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/cancel_booking"
	cancelSettlementHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/cancel_settlement"
	checkPriceHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/check_price"
	confirmCashHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/confirm_cash"
	confirmSettlementHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/confirm_settlement"
	createBookingHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/create_booking"
	getCalendarHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/get_calendar"
	paymentFailHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/payment_fail"
	paymentSuccessHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/payment_success"
	refundBookingHandler "github.com/soundroom/SRS-BookingEngine/internal/api/handlers/refund_booking"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	"github.com/soundroom/SRS-BookingEngine/internal/config"
	"github.com/soundroom/SRS-BookingEngine/internal/infra/cache"
	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
	holdRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/hold"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	identityClient "github.com/soundroom/SRS-BookingEngine/internal/integrations/identitysvc"
	gatewayClient "github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	availabilityService "github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	identityService "github.com/soundroom/SRS-BookingEngine/internal/service/identity"
	lifecycleService "github.com/soundroom/SRS-BookingEngine/internal/service/lifecycle"
	pricingService "github.com/soundroom/SRS-BookingEngine/internal/service/pricing"
	amendBookingUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/amend_booking"
	beginHoldUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/begin_hold"
	cancelBookingUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/cancel_booking"
	cancelSettlementUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/cancel_settlement"
	checkPriceUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/check_price"
	confirmSettlementUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/confirm_settlement"
	createBookingUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/create_booking"
	getCalendarUC "github.com/soundroom/SRS-BookingEngine/internal/usecase/get_calendar"
	"github.com/soundroom/SRS-BookingEngine/internal/worker"
	"github.com/soundroom/SRS-BookingEngine/pkg/dbmetrics"
	"github.com/soundroom/SRS-BookingEngine/pkg/logger"
	"github.com/soundroom/SRS-BookingEngine/pkg/metrics"
	"github.com/soundroom/SRS-BookingEngine/pkg/simpletxmanager"
	"github.com/soundroom/SRS-BookingEngine/pkg/txmanager"
)

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

	log.Info("Starting SRS-BookingEngine...")
	log.Info("Configuration loaded from config.toml")

	// Авторитетная таймзона бизнеса (границы суток для правил отмены)
	businessLoc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone %q: %v", cfg.Booking.Timezone, err)
	}
	log.Info("Business timezone: %s", businessLoc)

	// Инициализируем метрики
	// Коллекторы саги нужны use case'ам всегда; endpoint, HTTP middleware и
	// обёртка БД включаются флагом конфигурации
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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

	// Кэш календаря: Redis по флагу, иначе заглушка
	type calendarCache interface {
		Get(ctx context.Context, unitID string) ([]byte, bool)
		Set(ctx context.Context, unitID string, payload []byte)
		Invalidate(ctx context.Context, unitID string)
	}
	var calCache calendarCache = cache.Noop{}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		calCache = cache.New(redisClient, cfg.Booking.CalendarCacheTTL())
		log.Info("Calendar cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Booking.CalendarCacheTTL())
	}

	// Инициализируем интеграционных клиентов
	idClient := identityClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	payClient := gatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		cfg.PaymentGateway.SecretKey,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (IdentityService=%s timeout=%ds, PaymentGateway=%s timeout=%ds)",
		cfg.IdentityService.URL, cfg.IdentityService.Timeout, cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		holdRepository    *holdRepo.Repository
		unitRepository    *unitRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		holdRepository = holdRepo.NewRepository(wrappedDB)
		unitRepository = unitRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		holdRepository = holdRepo.NewRepository(db)
		unitRepository = unitRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	engine := availabilityService.NewService(
		bookingRepository,
		holdRepository,
		unitRepository,
		log,
	)
	pricer := pricingService.NewCalculator()
	lifecycleSvc := lifecycleService.NewService(bookingRepository, log)
	resolver := identityService.NewResolver(idClient, log)

	// Инициализируем use cases
	getCalendarUseCase := getCalendarUC.NewUseCase(
		unitRepository,
		engine,
		calCache,
		log,
	)
	checkPriceUseCase := checkPriceUC.NewUseCase(
		bookingRepository,
		unitRepository,
		engine,
		pricer,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		unitRepository,
		engine,
		pricer,
		resolver,
		calCache,
		txMgr,
		log,
	)
	amendBookingUseCase := amendBookingUC.NewUseCase(
		bookingRepository,
		holdRepository,
		unitRepository,
		engine,
		pricer,
		idClient,
		payClient,
		calCache,
		txMgr,
		cfg.Booking.HoldTTL(),
		metricsCollector.HoldsCreated,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		calCache,
		txMgr,
		businessLoc,
		log,
	)
	beginHoldUseCase := beginHoldUC.NewUseCase(
		holdRepository,
		unitRepository,
		engine,
		pricer,
		resolver,
		payClient,
		calCache,
		txMgr,
		cfg.Booking.HoldTTL(),
		metricsCollector.HoldsCreated,
		log,
	)
	confirmSettlementUseCase := confirmSettlementUC.NewUseCase(
		bookingRepository,
		holdRepository,
		engine,
		payClient,
		calCache,
		txMgr,
		metricsCollector.SettlementsCommitted,
		metricsCollector.SettlementsRolledBack,
		log,
	)
	cancelSettlementUseCase := cancelSettlementUC.NewUseCase(
		holdRepository,
		payClient,
		calCache,
		txMgr,
		metricsCollector.SettlementsRolledBack,
		log,
	)

	// Инициализируем handlers
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	checkPrice := checkPriceHandler.NewHandler(checkPriceUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	amendBooking := amendBookingHandler.NewHandler(amendBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	confirmCash := confirmCashHandler.NewHandler(lifecycleSvc, log)
	refundBooking := refundBookingHandler.NewHandler(lifecycleSvc, log)
	beginHold := beginHoldHandler.NewHandler(beginHoldUseCase, log)
	paymentSuccess := paymentSuccessHandler.NewHandler(confirmSettlementUseCase, log)
	confirmSettlement := confirmSettlementHandler.NewHandler(confirmSettlementUseCase, log)
	cancelSettlement := cancelSettlementHandler.NewHandler(cancelSettlementUseCase, log)
	paymentFail := paymentFailHandler.NewHandler(cancelSettlementUseCase, log)

	// Фоновая очистка: истекшие hold'ы и просроченные брони
	sweeper := worker.NewSweeper(
		holdRepository,
		bookingRepository,
		txMgr,
		metricsCollector.HoldsExpired,
		log,
	)
	if err := sweeper.Start(cfg.Booking.SweepSchedule); err != nil {
		log.Fatal("Failed to start sweeper: %v", err)
	}
	log.Info("Sweeper started (schedule=%q)", cfg.Booking.SweepSchedule)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (аутентификация опциональна)
	// ============================================================

	// Календарь занятых слотов юнита: анонимам - маскированная проекция
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)
	public.HandleFunc("/bookings/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Предварительный расчет стоимости
	protected.HandleFunc("/bookings/check", checkPrice.Handle).Methods(http.MethodPost)

	// Создание бронирования (оплата наличными)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Изменение бронирования (перенос, продление, передача группе)
	protected.HandleFunc("/bookings/{bookingId}", amendBooking.Handle).Methods(http.MethodPut)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// Подтверждение оплаты наличными (только staff)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmCash.Handle).Methods(http.MethodPatch)

	// Возврат по брони (только staff)
	protected.HandleFunc("/bookings/{bookingId}/refund", refundBooking.Handle).Methods(http.MethodPatch)

	// --- Платежная сага ---
	// Старт: hold слота + авторизация у шлюза
	protected.HandleFunc("/payments/hold", beginHold.Handle).Methods(http.MethodPost)

	// Возврат пользователя со страницы шлюза
	protected.HandleFunc("/payments/success", paymentSuccess.Handle).Methods(http.MethodGet)

	// Фиксация: списание и материализация брони
	protected.HandleFunc("/payments/confirm", confirmSettlement.Handle).Methods(http.MethodPost)

	// Явная отмена саги пользователем
	protected.HandleFunc("/payments/cancel", cancelSettlement.Handle).Methods(http.MethodPost)

	// Callback шлюза о неуспехе оплаты
	protected.HandleFunc("/payments/fail", paymentFail.Handle).Methods(http.MethodPost)

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

	// Останавливаем фоновую очистку
	sweeper.Stop()
	log.Info("Sweeper stopped")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
