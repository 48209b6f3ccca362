package refresh_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
)

const (
	msgSessionNotFound = "сессия не найдена или истекла"
	msgNoDateSelected  = "выберите дату начала"
)

type Handler struct {
	manager SessionManager
	logger  Logger
}

func NewHandler(manager SessionManager, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/availability/refresh
// Ошибка сервиса доступности возвращается в availabilityError, код ответа 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	s, err := h.manager.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgSessionNotFound)
			return
		}
		h.logger.Error("POST /sessions/{id}/availability/refresh - Failed to get session %s: %v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	if err := s.Refresh(r.Context()); err != nil {
		if errors.Is(err, session.ErrNoDateSelected) {
			handlers.RespondBadRequest(w, msgNoDateSelected)
			return
		}
		h.logger.Error("POST /sessions/{id}/availability/refresh - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewSessionViewResponse(s.View()))
}
