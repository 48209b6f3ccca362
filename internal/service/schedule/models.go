package schedule

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// State конфигурация дат и дней недели
type State struct {
	Range    domain.DateRangeSelection
	Config   domain.ScheduleConfig
	Weekdays domain.Weekdays
}

// Clone глубокая копия состояния
func (s State) Clone() State {
	res := State{
		Config: domain.ScheduleConfig{
			HasDateRange:        s.Config.HasDateRange,
			HasWeekdaySelection: s.Config.HasWeekdaySelection,
			ExpandedPeriods:     make(map[domain.Period]bool, len(s.Config.ExpandedPeriods)),
		},
		Weekdays: append(domain.Weekdays{}, s.Weekdays...),
	}
	for k, v := range s.Config.ExpandedPeriods {
		res.Config.ExpandedPeriods[k] = v
	}
	if s.Range.From != nil {
		from := *s.Range.From
		res.Range.From = &from
	}
	if s.Range.To != nil {
		to := *s.Range.To
		res.Range.To = &to
	}
	return res
}

// SameSchedule сравнивает даты и дни недели (без UI-полей)
func (s State) SameSchedule(other State) bool {
	return s.Config.HasDateRange == other.Config.HasDateRange &&
		s.Config.HasWeekdaySelection == other.Config.HasWeekdaySelection &&
		sameDate(s.Range.From, other.Range.From) &&
		sameDate(s.Range.To, other.Range.To) &&
		s.Weekdays.Equal(other.Weekdays)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return domain.FormatDate(*a) == domain.FormatDate(*b)
}
