package urlstate

import (
	"net/url"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/schedule"
)

// Adapter синхронизирует конфигурацию дат со строкой запроса страницы
// Восстановление из URL выполняется ровно один раз
type Adapter struct {
	mu sync.Mutex

	basePath string
	loc      *time.Location
	logger   Logger

	restored bool
	location string
	synced   *schedule.State
}

// NewAdapter создает адаптер для страницы basePath
func NewAdapter(basePath string, loc *time.Location, logger Logger) *Adapter {
	return &Adapter{
		basePath: basePath,
		loc:      loc,
		logger:   logger,
		location: basePath,
	}
}

// Restore применяет параметры URL к target; повторные вызовы ничего не делают
// Возвращает true, если восстановление выполнено этим вызовом
func (a *Adapter) Restore(target Restorer, values url.Values) bool {
	a.mu.Lock()
	if a.restored {
		a.mu.Unlock()
		return false
	}
	a.mu.Unlock()

	st, err := Decode(values, a.loc)
	if err != nil {
		a.logger.Warn("URLState: ignoring invalid parameters: %v", err)
	}
	target.Restore(st)

	a.mu.Lock()
	a.restored = true
	a.mu.Unlock()

	a.logger.Info("URLState: restored from %q", values.Encode())
	return true
}

// HasRestoredFromURL returns true once Restore has been applied
func (a *Adapter) HasRestoredFromURL() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.restored
}

// Sync отражает состояние в URL и возвращает адрес для history.replaceState
// До восстановления URL не меняется
func (a *Adapter) Sync(st schedule.State) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.restored {
		return a.location
	}
	if a.synced != nil && a.synced.SameSchedule(st) {
		return a.location
	}

	values, err := Encode(st)
	if err != nil {
		a.logger.Warn("URLState: %v", err)
		return a.location
	}

	location := a.basePath
	if q := values.Encode(); q != "" {
		location += "?" + q
	}
	synced := st.Clone()
	a.synced = &synced
	if location != a.location {
		a.logger.Info("URLState: location changed to %s", location)
		a.location = location
	}
	return a.location
}

// Location последний синхронизированный адрес страницы
func (a *Adapter) Location() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}
