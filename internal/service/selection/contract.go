package selection

import "github.com/m04kA/SMC-SlotScheduler/internal/domain"

// AvailabilityChecker интерфейс движка доступности (только чтение)
type AvailabilityChecker interface {
	CheckSlotAvailability(slotID int64) bool
	Slots() []domain.TimeSlot
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
