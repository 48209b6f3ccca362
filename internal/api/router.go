package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	completeAuthHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/complete_auth"
	getSessionHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_session"
	openSessionHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/open_session"
	refreshAvailabilityHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/refresh_availability"
	submitReservationHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/submit_reservation"
	updateScheduleHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/update_schedule"
	updateSelectionHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/update_selection"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/pkg/metrics"
)

// SessionManager интерфейс менеджера сессий
type SessionManager interface {
	openSessionHandler.SessionManager
	getSessionHandler.SessionManager
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Options настройки роутера
type Options struct {
	Location    *time.Location
	Metrics     *metrics.Metrics // nil - метрики выключены
	MetricsPath string
	RateLimiter *middleware.RateLimiter // nil - без ограничения
}

// NewRouter собирает HTTP маршруты сервиса
func NewRouter(manager SessionManager, logger Logger, opts Options) *mux.Router {
	openSession := openSessionHandler.NewHandler(manager, opts.Location, logger)
	getSession := getSessionHandler.NewHandler(manager, logger)
	updateSchedule := updateScheduleHandler.NewHandler(manager, opts.Location, logger)
	refreshAvailability := refreshAvailabilityHandler.NewHandler(manager, logger)
	updateSelection := updateSelectionHandler.NewHandler(manager, logger)
	submitReservation := submitReservationHandler.NewHandler(manager, logger)
	completeAuth := completeAuthHandler.NewHandler(manager, logger)

	r := mux.NewRouter()

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		r.Handle(opts.MetricsPath, opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Открытие страницы планирования: восстановление из URL и первый запрос доступности
	api.HandleFunc("/scenarios/{subScenarioId}/sessions", openSession.Handle).Methods(http.MethodPost)

	api.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/schedule", updateSchedule.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{sessionId}/availability/refresh", refreshAvailability.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/selection", updateSelection.Handle).Methods(http.MethodPost)

	// Отправка: без X-User-ID намерение сохраняется до входа
	api.Handle("/sessions/{sessionId}/submit",
		middleware.OptionalAuth(http.HandlerFunc(submitReservation.Handle))).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Возобновление отложенной отправки после входа
	protected.HandleFunc("/sessions/{sessionId}/auth", completeAuth.Handle).Methods(http.MethodPost)

	return r
}
