package urlstate

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/schedule"
)

var (
	encoder = schema.NewEncoder()
	decoder = newDecoder()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// ToParams переводит конфигурацию дат в параметры URL
func ToParams(st schedule.State) Params {
	p := Params{Mode: ModeSingle}
	if st.Range.From != nil {
		p.Date = domain.FormatDate(*st.Range.From)
	}
	if st.Config.HasDateRange {
		p.Mode = ModeRange
		if st.Range.To != nil {
			p.EndDate = domain.FormatDate(*st.Range.To)
		}
		// Выбор дней без единого дня равен его отсутствию и в URL не пишется
		if st.Config.HasWeekdaySelection && len(st.Weekdays) > 0 {
			p.Weekdays = st.Weekdays.String()
		}
	}
	return p
}

// Encode кодирует конфигурацию дат в url.Values
func Encode(st schedule.State) (url.Values, error) {
	values := url.Values{}
	if err := encoder.Encode(ToParams(st), values); err != nil {
		return nil, fmt.Errorf("urlstate: encode: %w", err)
	}
	return values, nil
}

// Decode восстанавливает конфигурацию дат из параметров URL
// Некорректные параметры пропускаются; состояние по остальным возвращается вместе с ошибкой
// endDate без mode означает режим диапазона
func Decode(values url.Values, loc *time.Location) (schedule.State, error) {
	st := schedule.State{
		Config:   domain.ScheduleConfig{ExpandedPeriods: make(map[domain.Period]bool)},
		Weekdays: domain.Weekdays{},
	}

	var p Params
	if err := decoder.Decode(&p, values); err != nil {
		return st, fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}

	var errs []error

	if p.Date != "" {
		from, err := domain.ParseDate(p.Date, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: date=%q", ErrInvalidParam, p.Date))
		} else {
			st.Range.From = &from
		}
	}

	switch p.Mode {
	case ModeRange:
		st.Config.HasDateRange = true
	case ModeSingle:
	case "":
		st.Config.HasDateRange = p.EndDate != ""
	default:
		errs = append(errs, fmt.Errorf("%w: mode=%q", ErrInvalidParam, p.Mode))
	}

	if st.Config.HasDateRange && p.EndDate != "" {
		to, err := domain.ParseDate(p.EndDate, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: endDate=%q", ErrInvalidParam, p.EndDate))
		} else {
			st.Range.To = &to
		}
	}

	if st.Config.HasDateRange && p.Weekdays != "" {
		days, err := domain.ParseWeekdays(p.Weekdays)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: weekdays=%q: %v", ErrInvalidParam, p.Weekdays, err))
		} else if len(days) > 0 {
			st.Weekdays = days
			st.Config.HasWeekdaySelection = true
		}
	}

	return st, errors.Join(errs...)
}
