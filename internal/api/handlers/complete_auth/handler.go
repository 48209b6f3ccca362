package complete_auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
	submitReservation "github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_reservation"
)

const (
	msgSessionNotFound      = "сессия не найдена или истекла"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNoPendingSubmission  = "нет бронирования, ожидающего входа"
	msgSubmissionInProgress = "бронирование уже отправляется"
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

// Handle POST /api/v1/sessions/{sessionId}/auth
// Возобновляет отправку, отложенную до входа пользователя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions/{id}/auth - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	s, err := h.manager.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgSessionNotFound)
			return
		}
		h.logger.Error("POST /sessions/{id}/auth - Failed to get session %s: %v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	res, err := s.CompleteAuth(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, submitReservation.ErrNoPendingIntent):
			handlers.RespondError(w, http.StatusConflict, msgNoPendingSubmission)
		case errors.Is(err, submitReservation.ErrSubmissionInProgress):
			handlers.RespondError(w, http.StatusConflict, msgSubmissionInProgress)
		case errors.Is(err, submitReservation.ErrInvalidUser):
			handlers.RespondUnauthorized(w, msgMissingUserID)
		default:
			h.logger.Error("POST /sessions/{id}/auth - Failed: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/auth - session=%s, user=%d, status=%s", sessionID, userID, res.Status)
	handlers.RespondJSON(w, handlers.SubmissionStatusCode(res.Status), handlers.SubmitResponse{
		Submission: handlers.NewSubmissionResponse(res),
		Session:    handlers.NewSessionViewResponse(s.View()),
	})
}
