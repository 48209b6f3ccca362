package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidWeekday возвращается для дня недели вне диапазона 0-6
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// DateRangeSelection выбранные даты
// To, если задан, строго позже From; To имеет смысл только в режиме диапазона
type DateRangeSelection struct {
	From *time.Time
	To   *time.Time
}

// ScheduleConfig режим бронирования
// HasWeekdaySelection имеет смысл только при HasDateRange
type ScheduleConfig struct {
	HasDateRange        bool
	HasWeekdaySelection bool
	ExpandedPeriods     map[Period]bool // только для UI, не уходит ни в URL, ни в запрос
}

// Weekdays набор дней недели (0 = воскресенье), уникальный и отсортированный
type Weekdays []int

// NewWeekdays нормализует набор дней: проверяет диапазон, убирает дубли, сортирует
func NewWeekdays(days ...int) (Weekdays, error) {
	seen := make(map[int]struct{}, len(days))
	res := make(Weekdays, 0, len(days))
	for _, d := range days {
		if d < MinWeekday || d > MaxWeekday {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		res = append(res, d)
	}
	sort.Ints(res)
	return res, nil
}

// ParseWeekdays парсит список через запятую: "1,3,5"
func ParseWeekdays(s string) (Weekdays, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Weekdays{}, nil
	}

	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, p)
		}
		days = append(days, d)
	}
	return NewWeekdays(days...)
}

// Contains проверяет наличие дня
func (w Weekdays) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Toggle возвращает новый набор с добавленным или удаленным днем
func (w Weekdays) Toggle(day int) (Weekdays, error) {
	if day < MinWeekday || day > MaxWeekday {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
	}
	if w.Contains(day) {
		res := make(Weekdays, 0, len(w))
		for _, d := range w {
			if d != day {
				res = append(res, d)
			}
		}
		return res, nil
	}
	return NewWeekdays(append(append([]int{}, w...), day)...)
}

// Equal сравнивает наборы дней
func (w Weekdays) Equal(other Weekdays) bool {
	if len(w) != len(other) {
		return false
	}
	for i := range w {
		if w[i] != other[i] {
			return false
		}
	}
	return true
}

// Ints копия набора в виде []int
func (w Weekdays) Ints() []int {
	return append([]int{}, w...)
}

// String формат "1,3,5"
func (w Weekdays) String() string {
	parts := make([]string, len(w))
	for i, d := range w {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// AvailabilityQueryConfig параметры запроса доступности
// Вычисляется детерминированно из ScheduleConfig + DateRangeSelection + Weekdays
type AvailabilityQueryConfig struct {
	SubScenarioID int64
	InitialDate   time.Time
	FinalDate     *time.Time
	Weekdays      Weekdays
}

// Equal сравнивает конфигурации по нормализованным датам и набору дней
func (c AvailabilityQueryConfig) Equal(other AvailabilityQueryConfig) bool {
	return c.Key() == other.Key()
}

// Key нормализованное строковое представление конфигурации
func (c AvailabilityQueryConfig) Key() string {
	final := ""
	if c.FinalDate != nil {
		final = FormatDate(*c.FinalDate)
	}
	return fmt.Sprintf("%d|%s|%s|%s", c.SubScenarioID, FormatDate(c.InitialDate), final, c.Weekdays.String())
}
