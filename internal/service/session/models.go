package session

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/schedule"
	"github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_reservation"
)

// Сообщения для пользователя
const (
	msgSlotUnavailable     = "Слот %d недоступен для бронирования"
	msgSlotsSkipped        = "Недоступные слоты пропущены: %s"
	msgSelectionReconciled = "Слоты больше недоступны и убраны из выбора: %s"
)

// Options настройки сессии
type Options struct {
	Grace     time.Duration
	OpenHour  int
	CloseHour int
	Location  *time.Location
}

// Deps внешние зависимости сессии
type Deps struct {
	AvailabilityClient AvailabilityClient
	ReservationClient  ReservationClient
	TimeProvider       TimeProvider
	Metrics            Metrics
	Logger             Logger
}

// ScheduleUpdate изменение конфигурации дат; nil-поля не меняются
// Поля применяются в порядке объявления
type ScheduleUpdate struct {
	HasDateRange        *bool
	HasWeekdaySelection *bool
	Date                *time.Time
	EndDate             *time.Time
	ClearEndDate        bool
	Weekdays            *[]int
	ToggleWeekday       *int
	TogglePeriod        *domain.Period
}

// SelectionOpKind тип операции выбора
type SelectionOpKind string

const (
	OpToggle       SelectionOpKind = "toggle"
	OpSelectPeriod SelectionOpKind = "select_period"
	OpClearPeriod  SelectionOpKind = "clear_period"
	OpShortcut     SelectionOpKind = "shortcut"
	OpClearAll     SelectionOpKind = "clear_all"
)

// SelectionOp операция над выбором слотов
// Для select_period/clear_period задается либо Period, либо SlotIDs
type SelectionOp struct {
	Kind    SelectionOpKind
	SlotID  *int64
	SlotIDs []int64
	Period  domain.Period
	Preset  domain.SmartPreset
}

// SlotView слот с признаком выбора
type SlotView struct {
	domain.TimeSlot
	Selected bool
}

// View состояние сессии для отображения
type View struct {
	SessionID         string
	SubScenarioID     int64
	Location          string // адрес для history.replaceState
	Schedule          schedule.State
	MinDate           time.Time
	MinEndDate        *time.Time
	Slots             []SlotView
	SelectedSlotIDs   []int64
	AvailabilityError error
	IsLoading         bool
	IsSubmitting      bool
	SubmissionStatus  submit_reservation.Status
	LastSubmission    *submit_reservation.Result
	PendingAuth       bool
	Rejections        []string
}
