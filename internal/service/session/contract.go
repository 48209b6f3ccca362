package session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/reservationservice"
)

// AvailabilityClient интерфейс клиента сервиса доступности
type AvailabilityClient interface {
	GetAvailability(ctx context.Context, q availabilityservice.Query) ([]availabilityservice.SlotDescriptor, error)
}

// ReservationClient интерфейс клиента сервиса бронирований
type ReservationClient interface {
	CreateReservation(ctx context.Context, userID int64, body reservationservice.CreateReservationRequest) error
}

// Repository интерфейс хранилища сессий
type Repository interface {
	Save(ctx context.Context, id string, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics интерфейс для метрик сессии
type Metrics interface {
	ObserveAvailabilityFetch(result string, duration time.Duration)
	IncSubmission(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе площадки
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время площадки
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
