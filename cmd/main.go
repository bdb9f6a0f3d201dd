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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applyPaymentEventHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/apply_payment_event"
	claimFlashHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/claim_flash"
	createBookHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/create_book"
	createBookingHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/create_booking"
	createManualBlockHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/create_manual_block"
	deleteManualBlockHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/delete_manual_block"
	getAvailabilityRangeHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/get_availability_range"
	getAvailableSlotsHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/get_available_slots"
	getBookHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/get_book"
	getBookingHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/get_booking"
	getDayScheduleHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/get_day_schedule"
	getFlashPieceHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/get_flash_piece"
	listBookingsHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/list_bookings"
	listBooksHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/list_books"
	listDayExceptionsHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/list_day_exceptions"
	listFlashPiecesHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/list_flash_pieces"
	removeDayExceptionHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/remove_day_exception"
	setDayExceptionHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/set_day_exception"
	transitionBookingHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/transition_booking"
	updateBookHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/update_book"
	updateBookingHandler "github.com/needleworks/INK-BookingService/internal/api/handlers/update_booking"
	"github.com/needleworks/INK-BookingService/internal/api/middleware"
	"github.com/needleworks/INK-BookingService/internal/config"
	bookRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/book"
	bookingRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/booking"
	exceptionRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/exception"
	flashRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/flash"
	paymentEventRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/paymentevent"
	timeBlockRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/timeblock"
	calendarMirrorClient "github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	notifierClient "github.com/needleworks/INK-BookingService/internal/integrations/notifier"
	bookingsService "github.com/needleworks/INK-BookingService/internal/service/bookings"
	flashService "github.com/needleworks/INK-BookingService/internal/service/flash"
	scheduleService "github.com/needleworks/INK-BookingService/internal/service/schedule"
	applyPaymentEventUC "github.com/needleworks/INK-BookingService/internal/usecase/apply_payment_event"
	claimFlashUC "github.com/needleworks/INK-BookingService/internal/usecase/claim_flash"
	createBookingUC "github.com/needleworks/INK-BookingService/internal/usecase/create_booking"
	getAvailabilityRangeUC "github.com/needleworks/INK-BookingService/internal/usecase/get_availability_range"
	getAvailableSlotsUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
	reserveSlotUC "github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
	transitionBookingUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
	"github.com/needleworks/INK-BookingService/pkg/logger"
	"github.com/needleworks/INK-BookingService/pkg/metrics"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

const serviceName = "ink-booking-service"

// dbPoolCollectInterval период опроса статистики connection pool
const dbPoolCollectInterval = 15 * time.Second

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

	log.Info("Starting %s...", serviceName)
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики. Счетчики регистрируются всегда,
	// endpoint и сбор pool-статистики включаются конфигом
	metricsCollector := metrics.New(serviceName)
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
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	if cfg.Metrics.Enabled {
		metricsCollector.StartDBPoolCollector(db, dbPoolCollectInterval, stopMetricsCh)
		log.Info("Database pool metrics collection started")
	}

	// Инициализируем интеграционных клиентов
	notifier := notifierClient.NewClient(cfg.Notifier.BaseURL, cfg.Notifier.Timeout(), log)
	mirror := calendarMirrorClient.NewClient(cfg.CalendarMirror.BaseURL, cfg.CalendarMirror.Timeout(), log)
	log.Info("Integration clients initialized (Notifier=%s, CalendarMirror=%s)",
		cfg.Notifier.BaseURL, cfg.CalendarMirror.BaseURL)

	// Инициализируем репозитории
	bookRepository := bookRepo.NewRepository(db)
	bookingRepository := bookingRepo.NewRepository(db)
	blockRepository := timeBlockRepo.NewRepository(db)
	exceptionRepository := exceptionRepo.NewRepository(db)
	flashRepository := flashRepo.NewRepository(db)
	paymentEventRepository := paymentEventRepo.NewRepository(db)

	txMgr := txmanager.NewTransactionManager(db)

	// Инициализируем use cases
	availabilityUseCase := getAvailableSlotsUC.NewUseCase(
		bookRepository,
		blockRepository,
		exceptionRepository,
		log,
	)
	availabilityRangeUseCase := getAvailabilityRangeUC.NewUseCase(availabilityUseCase, log)
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		bookRepository,
		blockRepository,
		availabilityUseCase,
		mirror,
		txMgr,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(bookingRepository, log)
	claimFlashUseCase := claimFlashUC.NewUseCase(
		flashRepository,
		bookRepository,
		bookingRepository,
		blockRepository,
		availabilityUseCase,
		notifier,
		mirror,
		txMgr,
		metricsCollector,
		log,
	)
	transitionUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		blockRepository,
		flashRepository,
		reserveSlotUseCase,
		notifier,
		mirror,
		txMgr,
		log,
	)
	applyPaymentEventUseCase := applyPaymentEventUC.NewUseCase(
		paymentEventRepository,
		bookingRepository,
		transitionUseCase,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	scheduleSvc := scheduleService.NewService(
		bookRepository,
		exceptionRepository,
		blockRepository,
		reserveSlotUseCase,
		mirror,
		log,
	)
	flashSvc := flashService.NewService(flashRepository, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(availabilityUseCase, log)
	getAvailabilityRange := getAvailabilityRangeHandler.NewHandler(availabilityRangeUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionUseCase, log)
	claimFlash := claimFlashHandler.NewHandler(claimFlashUseCase, log)
	getFlashPiece := getFlashPieceHandler.NewHandler(flashSvc, log)
	listFlashPieces := listFlashPiecesHandler.NewHandler(flashSvc, log)
	applyPaymentEvent := applyPaymentEventHandler.NewHandler(applyPaymentEventUseCase, log)
	createBook := createBookHandler.NewHandler(scheduleSvc, log)
	getBook := getBookHandler.NewHandler(scheduleSvc, log)
	listBooks := listBooksHandler.NewHandler(scheduleSvc, log)
	updateBook := updateBookHandler.NewHandler(scheduleSvc, log)
	setDayException := setDayExceptionHandler.NewHandler(scheduleSvc, log)
	removeDayException := removeDayExceptionHandler.NewHandler(scheduleSvc, log)
	listDayExceptions := listDayExceptionsHandler.NewHandler(scheduleSvc, log)
	createManualBlock := createManualBlockHandler.NewHandler(scheduleSvc, log)
	deleteManualBlock := deleteManualBlockHandler.NewHandler(scheduleSvc, log)
	getDaySchedule := getDayScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/books/{bookId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Карта доступности на период
	api.HandleFunc("/books/{bookId}/availability", getAvailabilityRange.Handle).Methods(http.MethodGet)

	// Каталог flash-дизайнов
	api.HandleFunc("/flash", listFlashPieces.Handle).Methods(http.MethodGet)
	api.HandleFunc("/flash/{pieceId}", getFlashPiece.Handle).Methods(http.MethodGet)

	// Книги записи (чтение)
	api.HandleFunc("/books", listBooks.Handle).Methods(http.MethodGet)
	api.HandleFunc("/books/{bookId}", getBook.Handle).Methods(http.MethodGet)

	// Платежные события от платежного провайдера. Авторизация
	// по service-token решается на gateway
	api.HandleFunc("/payments/events", applyPaymentEvent.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	protected.Use(rateLimiter.Middleware)

	// --- Заявки на бронирование ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/transition", transitionBooking.Handle).Methods(http.MethodPost)

	// --- Бронирование flash-дизайна ---
	protected.HandleFunc("/flash/{pieceId}/claim", claimFlash.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROVIDER ROUTES (управление студией, роль provider)
	// ============================================================

	provider := protected.PathPrefix("").Subrouter()
	provider.Use(middleware.RequireProvider)

	// --- Книги записи ---
	provider.HandleFunc("/books", createBook.Handle).Methods(http.MethodPost)
	provider.HandleFunc("/books/{bookId}", updateBook.Handle).Methods(http.MethodPut)

	// --- Исключения на даты ---
	provider.HandleFunc("/books/{bookId}/exceptions", listDayExceptions.Handle).Methods(http.MethodGet)
	provider.HandleFunc("/books/{bookId}/exceptions/{date}", setDayException.Handle).Methods(http.MethodPut)
	provider.HandleFunc("/books/{bookId}/exceptions/{date}", removeDayException.Handle).Methods(http.MethodDelete)

	// --- Блоки расписания ---
	provider.HandleFunc("/books/{bookId}/schedule", getDaySchedule.Handle).Methods(http.MethodGet)
	provider.HandleFunc("/books/{bookId}/blocks", createManualBlock.Handle).Methods(http.MethodPost)
	provider.HandleFunc("/books/{bookId}/blocks/{blockId}", deleteManualBlock.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
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

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownSec)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
