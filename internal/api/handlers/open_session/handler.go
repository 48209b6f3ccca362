package open_session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/availability"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
)

const (
	msgInvalidSubScenarioID = "некорректный ID подсценария"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidSnapshot      = "некорректный снимок доступности"
	msgSubScenarioNotFound  = "подсценарий не найден"
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

// Handle POST /api/v1/scenarios/{subScenarioId}/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subScenarioID, err := strconv.ParseInt(mux.Vars(r)["subScenarioId"], 10, 64)
	if err != nil || subScenarioID <= 0 {
		h.logger.Warn("POST /scenarios/{id}/sessions - Invalid sub-scenario ID: %q", mux.Vars(r)["subScenarioId"])
		handlers.RespondBadRequest(w, msgInvalidSubScenarioID)
		return
	}

	var req OpenSessionRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /scenarios/{id}/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var snapshot *availability.Snapshot
	if req.Snapshot != nil {
		snapshot, err = req.Snapshot.ToSnapshot(subScenarioID, h.loc)
		if err != nil {
			h.logger.Warn("POST /scenarios/{id}/sessions - Invalid snapshot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSnapshot)
			return
		}
	}

	s, err := h.manager.Open(r.Context(), subScenarioID, r.URL.Query(), snapshot)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidSubScenario):
			handlers.RespondBadRequest(w, msgInvalidSubScenarioID)
		case errors.Is(err, session.ErrSubScenarioNotFound):
			h.logger.Warn("POST /scenarios/{id}/sessions - Sub-scenario not found: id=%d", subScenarioID)
			handlers.RespondNotFound(w, msgSubScenarioNotFound)
		default:
			h.logger.Error("POST /scenarios/{id}/sessions - Failed to open session: sub_scenario=%d, error=%v", subScenarioID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /scenarios/{id}/sessions - Session opened: session=%s, sub_scenario=%d", s.ID(), subScenarioID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewSessionViewResponse(s.View()))
}
