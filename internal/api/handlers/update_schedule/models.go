package update_schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
)

// UpdateScheduleRequest изменение конфигурации дат
// endDate: "" сбрасывает дату окончания
type UpdateScheduleRequest struct {
	HasDateRange        *bool   `json:"hasDateRange,omitempty"`
	HasWeekdaySelection *bool   `json:"hasWeekdaySelection,omitempty"`
	Date                *string `json:"date,omitempty"`
	EndDate             *string `json:"endDate,omitempty"`
	Weekdays            *[]int  `json:"weekdays,omitempty"`
	ToggleWeekday       *int    `json:"toggleWeekday,omitempty"`
	TogglePeriod        *string `json:"togglePeriod,omitempty"`
}

// ToUpdate конвертирует HTTP запрос в изменение сессии
func (r *UpdateScheduleRequest) ToUpdate(loc *time.Location) (session.ScheduleUpdate, error) {
	u := session.ScheduleUpdate{
		HasDateRange:        r.HasDateRange,
		HasWeekdaySelection: r.HasWeekdaySelection,
		Weekdays:            r.Weekdays,
		ToggleWeekday:       r.ToggleWeekday,
	}

	if r.Date != nil {
		d, err := domain.ParseDate(*r.Date, loc)
		if err != nil {
			return u, fmt.Errorf("date: %w", err)
		}
		u.Date = &d
	}
	if r.EndDate != nil {
		if *r.EndDate == "" {
			u.ClearEndDate = true
		} else {
			d, err := domain.ParseDate(*r.EndDate, loc)
			if err != nil {
				return u, fmt.Errorf("endDate: %w", err)
			}
			u.EndDate = &d
		}
	}
	if r.TogglePeriod != nil {
		u.TogglePeriod = ptr.Ptr(domain.Period(*r.TogglePeriod))
	}
	return u, nil
}
