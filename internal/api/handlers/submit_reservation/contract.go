package submit_reservation

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
)

// SessionManager интерфейс менеджера сессий
type SessionManager interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
