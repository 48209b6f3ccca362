package schedule

import "errors"

var (
	// ErrDateInPast возвращается, когда дата начала раньше сегодняшней
	ErrDateInPast = errors.New("schedule: start date is in the past")

	// ErrEndNotAfterStart возвращается, когда дата окончания не позже даты начала
	ErrEndNotAfterStart = errors.New("schedule: end date must be after start date")

	// ErrRangeModeRequired возвращается для операций, доступных только в режиме диапазона
	ErrRangeModeRequired = errors.New("schedule: date range mode is not enabled")

	// ErrWeekdaySelectionDisabled возвращается при выборе дней недели без включенного режима
	ErrWeekdaySelectionDisabled = errors.New("schedule: weekday selection is not enabled")

	// ErrInvalidWeekday возвращается для дня недели вне диапазона 0-6
	ErrInvalidWeekday = errors.New("schedule: invalid weekday")

	// ErrInvalidPeriod возвращается для неизвестного периода
	ErrInvalidPeriod = errors.New("schedule: invalid period")
)
