package submit_reservation

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

// Handle POST /api/v1/sessions/{sessionId}/submit
// X-User-ID необязателен: без него намерение сохраняется и возвращается 202 auth_required
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	userID, _ := middleware.GetUserID(r.Context())

	s, err := h.manager.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgSessionNotFound)
			return
		}
		h.logger.Error("POST /sessions/{id}/submit - Failed to get session %s: %v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	res, err := s.Submit(r.Context(), userID)
	if err != nil {
		if errors.Is(err, submitReservation.ErrSubmissionInProgress) {
			h.logger.Warn("POST /sessions/{id}/submit - Submission in progress: session=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSubmissionInProgress)
			return
		}
		h.logger.Error("POST /sessions/{id}/submit - Failed: session=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /sessions/{id}/submit - session=%s, user=%d, status=%s", sessionID, userID, res.Status)
	handlers.RespondJSON(w, handlers.SubmissionStatusCode(res.Status), handlers.SubmitResponse{
		Submission: handlers.NewSubmissionResponse(res),
		Session:    handlers.NewSessionViewResponse(s.View()),
	})
}
