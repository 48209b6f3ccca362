package schedule

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// TimeProvider интерфейс для получения текущего времени в часовом поясе площадки
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Listener вызывается, когда меняется конфигурация запроса доступности
type Listener func(cfg domain.AvailabilityQueryConfig)
