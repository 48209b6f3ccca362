package update_selection

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
)

const (
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidOperation   = "некорректная операция выбора слотов"
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

// Handle POST /api/v1/sessions/{sessionId}/selection
// Недоступные слоты не выбираются и перечисляются в rejections
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req UpdateSelectionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/selection - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	s, err := h.manager.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgSessionNotFound)
			return
		}
		h.logger.Error("POST /sessions/{id}/selection - Failed to get session %s: %v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	if err := s.UpdateSelection(req.ToOp()); err != nil {
		if errors.Is(err, session.ErrInvalidSelectionOp) {
			h.logger.Warn("POST /sessions/{id}/selection - Invalid operation: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOperation)
			return
		}
		h.logger.Error("POST /sessions/{id}/selection - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewSessionViewResponse(s.View()))
}
