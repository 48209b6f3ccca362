package open_session

import (
	"context"
	"net/url"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/availability"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
)

// SessionManager интерфейс менеджера сессий
type SessionManager interface {
	Open(ctx context.Context, subScenarioID int64, values url.Values, snapshot *availability.Snapshot) (*session.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
