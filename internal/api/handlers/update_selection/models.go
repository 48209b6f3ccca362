package update_selection

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
)

// UpdateSelectionRequest операция над выбором слотов
type UpdateSelectionRequest struct {
	Op      string  `json:"op"` // toggle | select_period | clear_period | shortcut | clear_all
	SlotID  *int64  `json:"slotId,omitempty"`
	SlotIDs []int64 `json:"slotIds,omitempty"`
	Period  string  `json:"period,omitempty"`
	Preset  string  `json:"preset,omitempty"`
}

// ToOp конвертирует HTTP запрос в операцию сессии
func (r *UpdateSelectionRequest) ToOp() session.SelectionOp {
	return session.SelectionOp{
		Kind:    session.SelectionOpKind(r.Op),
		SlotID:  r.SlotID,
		SlotIDs: r.SlotIDs,
		Period:  domain.Period(r.Period),
		Preset:  domain.SmartPreset(r.Preset),
	}
}
