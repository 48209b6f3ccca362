package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// IsSlotElapsed проверяет, что слот на выбранную дату уже нельзя забронировать
// now должен быть в часовом поясе площадки, selectedDate трактуется как календарная дата
//
// Правило:
//   - дата раньше сегодняшней: слот прошел
//   - дата позже сегодняшней: слот не прошел
//   - сегодня: пока час слота не начался, слот доступен; после начала часа слот
//     остается доступным только если его начало отстоит от now не больше чем на grace
//
// Пример: now=19:31, слот 19:45, grace=30m -> не прошел; grace=0 -> прошел
func IsSlotElapsed(start types.TimeString, selectedDate, now time.Time, grace time.Duration) bool {
	loc := now.Location()
	today := DateOnly(now, loc)
	day := DateOnly(selectedDate, loc)

	if day.Before(today) {
		return true
	}
	if day.After(today) {
		return false
	}

	slotAt, err := start.On(day)
	if err != nil {
		return false
	}

	hourStart := time.Date(slotAt.Year(), slotAt.Month(), slotAt.Day(), slotAt.Hour(), 0, 0, 0, loc)
	if hourStart.After(now) {
		return false
	}

	diff := slotAt.Sub(now)
	if diff < 0 {
		diff = -diff
	}
	return diff > grace
}

// DateOnly возвращает начало календарного дня t в часовом поясе loc
// Календарная дата берется из t без пересчета часового пояса
func DateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate парсит дату YYYY-MM-DD в часовом поясе loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, loc)
}

// FormatDate форматирует календарную дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
