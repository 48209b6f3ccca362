package update_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/schedule"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
)

const (
	msgSessionNotFound          = "сессия не найдена или истекла"
	msgInvalidRequestBody       = "некорректное тело запроса"
	msgInvalidDate              = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast               = "дата начала не может быть раньше сегодняшней"
	msgEndNotAfterStart         = "дата окончания должна быть позже даты начала"
	msgRangeModeRequired        = "сначала включите режим диапазона дат"
	msgWeekdaySelectionDisabled = "сначала включите выбор дней недели"
	msgInvalidWeekday           = "день недели должен быть от 0 (воскресенье) до 6"
	msgInvalidPeriod            = "неизвестный период"
)

type Handler struct {
	manager SessionManager
	loc     *time.Location
	logger  Logger
}

func NewHandler(manager SessionManager, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		loc:     loc,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/sessions/{sessionId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /sessions/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	update, err := req.ToUpdate(h.loc)
	if err != nil {
		h.logger.Warn("PATCH /sessions/{id}/schedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	s, err := h.manager.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgSessionNotFound)
			return
		}
		h.logger.Error("PATCH /sessions/{id}/schedule - Failed to get session %s: %v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	if err := s.UpdateSchedule(r.Context(), update); err != nil {
		h.logger.Warn("PATCH /sessions/{id}/schedule - Rejected: session=%s, error=%v", sessionID, err)
		switch {
		case errors.Is(err, schedule.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, schedule.ErrEndNotAfterStart):
			handlers.RespondBadRequest(w, msgEndNotAfterStart)
		case errors.Is(err, schedule.ErrRangeModeRequired):
			handlers.RespondBadRequest(w, msgRangeModeRequired)
		case errors.Is(err, schedule.ErrWeekdaySelectionDisabled):
			handlers.RespondBadRequest(w, msgWeekdaySelectionDisabled)
		case errors.Is(err, schedule.ErrInvalidWeekday):
			handlers.RespondBadRequest(w, msgInvalidWeekday)
		case errors.Is(err, schedule.ErrInvalidPeriod):
			handlers.RespondBadRequest(w, msgInvalidPeriod)
		default:
			h.logger.Error("PATCH /sessions/{id}/schedule - Failed to update schedule: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewSessionViewResponse(s.View()))
}
