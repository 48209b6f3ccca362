package open_session

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/availability"
)

// OpenSessionRequest необязательное тело запроса
type OpenSessionRequest struct {
	Snapshot *SnapshotRequest `json:"snapshot,omitempty"`
}

// SnapshotRequest заранее полученные данные доступности
type SnapshotRequest struct {
	InitialDate string                               `json:"initialDate"`
	FinalDate   *string                              `json:"finalDate,omitempty"`
	Weekdays    []int                                `json:"weekdays,omitempty"`
	TimeSlots   []availabilityservice.SlotDescriptor `json:"timeSlots"`
}

// ToSnapshot конвертирует снимок в модель движка доступности
func (r *SnapshotRequest) ToSnapshot(subScenarioID int64, loc *time.Location) (*availability.Snapshot, error) {
	initial, err := domain.ParseDate(r.InitialDate, loc)
	if err != nil {
		return nil, err
	}

	cfg := domain.AvailabilityQueryConfig{
		SubScenarioID: subScenarioID,
		InitialDate:   initial,
	}
	if r.FinalDate != nil {
		final, err := domain.ParseDate(*r.FinalDate, loc)
		if err != nil {
			return nil, err
		}
		cfg.FinalDate = &final
	}
	if len(r.Weekdays) > 0 {
		days, err := domain.NewWeekdays(r.Weekdays...)
		if err != nil {
			return nil, err
		}
		cfg.Weekdays = days
	}

	return &availability.Snapshot{Config: cfg, Descriptors: r.TimeSlots}, nil
}
