package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
	"github.com/m04kA/SMC-SlotScheduler/pkg/metrics"
)

// Engine единственный источник истины о доступности слотов
// Коллекция слотов заменяется целиком при каждом успешном запросе
type Engine struct {
	mu sync.RWMutex

	client       AvailabilityClient
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
	opts         Options

	slots    []domain.TimeSlot
	index    map[int64]int
	current  *domain.AvailabilityQueryConfig
	snapshot *Snapshot
	lastErr  error

	// generation номер последнего выданного запроса; применяется только ответ с актуальным номером
	generation uint64
	inFlight   int

	listeners []func()
}

// NewEngine создает движок с синтетической почасовой сеткой в состоянии unknown
func NewEngine(
	client AvailabilityClient,
	timeProvider TimeProvider,
	m Metrics,
	logger Logger,
	opts Options,
) *Engine {
	if opts.OpenHour == 0 && opts.CloseHour == 0 {
		opts.OpenHour, opts.CloseHour = domain.DefaultOpenHour, domain.DefaultCloseHour
	}
	if m == nil {
		m = noopMetrics{}
	}

	e := &Engine{
		client:       client,
		timeProvider: timeProvider,
		metrics:      m,
		logger:       logger,
		opts:         opts,
	}
	e.replaceSlots(domain.SyntheticTimeSlots(opts.OpenHour, opts.CloseHour))
	return e
}

// Subscribe добавляет подписчика, вызываемого после применения новой коллекции слотов
func (e *Engine) Subscribe(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Seed сохраняет заранее полученный снимок для первого запроса
func (e *Engine) Seed(snapshot Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = &snapshot
}

// UseSnapshot применяет сохраненный снимок, если его конфигурация совпадает с cfg
// Снимок одноразовый: после вызова он удаляется независимо от результата
func (e *Engine) UseSnapshot(cfg domain.AvailabilityQueryConfig) bool {
	e.mu.Lock()
	snapshot := e.snapshot
	e.snapshot = nil

	if snapshot == nil || !snapshot.Config.Equal(cfg) {
		e.mu.Unlock()
		if snapshot != nil {
			e.logger.Info("Availability: snapshot %s does not match %s, fetching", snapshot.Config.Key(), cfg.Key())
		}
		return false
	}

	e.generation++
	e.applyLocked(cfg, snapshot.Descriptors)
	listeners := append([]func(){}, e.listeners...)
	e.mu.Unlock()

	e.metrics.ObserveAvailabilityFetch(metrics.FetchResultSkipped, 0)
	e.logger.Info("Availability: reused snapshot for %s (%d slots)", cfg.Key(), len(snapshot.Descriptors))
	notify(listeners)
	return true
}

// CheckAvailability запрашивает доступность для cfg и заменяет коллекцию слотов
// При ошибке коллекция не очищается, ошибка сохраняется отдельно (State().Err)
// Если пока шел запрос был выдан более новый, ответ отбрасывается с ErrStaleResponse
func (e *Engine) CheckAvailability(ctx context.Context, cfg domain.AvailabilityQueryConfig) error {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.inFlight++
	e.mu.Unlock()

	started := e.timeProvider.Now()
	descriptors, err := e.client.GetAvailability(ctx, toQuery(cfg))
	elapsed := e.timeProvider.Now().Sub(started)

	e.mu.Lock()
	e.inFlight--

	if gen != e.generation {
		e.mu.Unlock()
		e.metrics.ObserveAvailabilityFetch(metrics.FetchResultStale, elapsed)
		e.logger.Warn("Availability: discarded stale response for %s (generation %d)", cfg.Key(), gen)
		return ErrStaleResponse
	}

	if err != nil {
		e.lastErr = err
		e.mu.Unlock()
		e.metrics.ObserveAvailabilityFetch(metrics.FetchResultError, elapsed)
		e.logger.Error("Availability: fetch failed for %s: %v", cfg.Key(), err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	e.applyLocked(cfg, descriptors)
	listeners := append([]func(){}, e.listeners...)
	e.mu.Unlock()

	e.metrics.ObserveAvailabilityFetch(metrics.FetchResultOK, elapsed)
	e.logger.Info("Availability: applied %d slots for %s", len(descriptors), cfg.Key())
	notify(listeners)
	return nil
}

// CheckSlotAvailability возвращает true, только если слот сейчас available
func (e *Engine) CheckSlotAvailability(slotID int64) bool {
	return e.GetSlotStatus(slotID) == domain.AvailabilityAvailable
}

// GetSlotStatus возвращает текущее состояние слота; для неизвестного ID - unknown
func (e *Engine) GetSlotStatus(slotID int64) domain.Availability {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, ok := e.index[slotID]
	if !ok {
		return domain.AvailabilityUnknown
	}
	return e.effective(e.slots[i]).Availability
}

// Slots возвращает копию коллекции слотов с учетом прошедшего времени
func (e *Engine) Slots() []domain.TimeSlot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	res := make([]domain.TimeSlot, len(e.slots))
	for i, s := range e.slots {
		res[i] = e.effective(s)
	}
	return res
}

// State возвращает снимок состояния движка
func (e *Engine) State() State {
	slots := e.Slots()

	e.mu.RLock()
	defer e.mu.RUnlock()

	st := State{
		Slots:     slots,
		Err:       e.lastErr,
		IsLoading: e.inFlight > 0,
	}
	if e.current != nil {
		cfg := *e.current
		st.Config = &cfg
	}
	return st
}

// CurrentConfig конфигурация, для которой получены текущие слоты
func (e *Engine) CurrentConfig() (domain.AvailabilityQueryConfig, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return domain.AvailabilityQueryConfig{}, false
	}
	return *e.current, true
}

// applyLocked заменяет коллекцию слотов ответом сервиса (под блокировкой)
func (e *Engine) applyLocked(cfg domain.AvailabilityQueryConfig, descriptors []availabilityservice.SlotDescriptor) {
	slots := make([]domain.TimeSlot, 0, len(descriptors))
	for _, d := range descriptors {
		slot, err := domain.NewTimeSlotFromDescriptor(d.ID, d.StartTime, d.EndTime, d.IsAvailableInAllDates)
		if err != nil {
			e.logger.Warn("Availability: skipping malformed slot: %v", err)
			continue
		}
		slots = append(slots, slot)
	}

	e.replaceSlots(slots)
	current := cfg
	e.current = &current
	e.lastErr = nil
}

func (e *Engine) replaceSlots(slots []domain.TimeSlot) {
	e.slots = slots
	e.index = make(map[int64]int, len(slots))
	for i, s := range slots {
		e.index[s.ID] = i
	}
}

// effective помечает прошедшие слоты выбранной даты как занятые
func (e *Engine) effective(s domain.TimeSlot) domain.TimeSlot {
	if e.current == nil || s.StartTime == nil {
		return s
	}
	if domain.IsSlotElapsed(*s.StartTime, e.current.InitialDate, e.timeProvider.Now(), e.opts.Grace) {
		s.Elapsed = true
		s.Availability = domain.AvailabilityOccupied
	}
	return s
}

func toQuery(cfg domain.AvailabilityQueryConfig) availabilityservice.Query {
	q := availabilityservice.Query{
		SubScenarioID: cfg.SubScenarioID,
		InitialDate:   domain.FormatDate(cfg.InitialDate),
		Weekdays:      cfg.Weekdays.Ints(),
	}
	if cfg.FinalDate != nil {
		final := domain.FormatDate(*cfg.FinalDate)
		q.FinalDate = &final
	}
	return q
}

func notify(listeners []func()) {
	for _, l := range listeners {
		l()
	}
}

// IsTransient returns true for errors that do not invalidate the caller's intent
func IsTransient(err error) bool {
	return errors.Is(err, ErrStaleResponse)
}

type noopMetrics struct{}

func (noopMetrics) ObserveAvailabilityFetch(string, time.Duration) {}
