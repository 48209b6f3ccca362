package urlstate

import "github.com/m04kA/SMC-SlotScheduler/internal/service/schedule"

// Restorer принимает восстановленное из URL состояние
type Restorer interface {
	Restore(st schedule.State)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
