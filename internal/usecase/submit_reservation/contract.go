package submit_reservation

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/reservationservice"
)

// SelectionEngine интерфейс движка выбора слотов
type SelectionEngine interface {
	Selected() []int64
	RemoveUnavailableSlotIDs() []int64
	ClearPeriodSlots(slotIDs []int64) int
	ClearAllTimeSlots()
}

// AvailabilityEngine интерфейс движка доступности
type AvailabilityEngine interface {
	CheckSlotAvailability(slotID int64) bool
	CheckAvailability(ctx context.Context, cfg domain.AvailabilityQueryConfig) error
	CurrentConfig() (domain.AvailabilityQueryConfig, bool)
}

// ScheduleSource источник текущей конфигурации запроса
type ScheduleSource interface {
	QueryConfig() (domain.AvailabilityQueryConfig, bool)
}

// ReservationClient интерфейс клиента сервиса бронирований
type ReservationClient interface {
	CreateReservation(ctx context.Context, userID int64, body reservationservice.CreateReservationRequest) error
}

// Metrics интерфейс для метрик отправки бронирований
type Metrics interface {
	IncSubmission(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
