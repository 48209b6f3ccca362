package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
)

// AvailabilityClient интерфейс клиента сервиса доступности
type AvailabilityClient interface {
	GetAvailability(ctx context.Context, q availabilityservice.Query) ([]availabilityservice.SlotDescriptor, error)
}

// TimeProvider интерфейс для получения текущего времени в часовом поясе площадки
type TimeProvider interface {
	Now() time.Time
}

// Metrics интерфейс для метрик запросов доступности
type Metrics interface {
	ObserveAvailabilityFetch(result string, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
