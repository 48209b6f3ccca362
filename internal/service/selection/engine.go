package selection

import (
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// Engine владеет набором выбранных слотов
// Слот попадает в выбор только если в момент добавления движок доступности считает его available
type Engine struct {
	mu sync.Mutex

	availability AvailabilityChecker
	logger       Logger

	selected map[int64]struct{}
}

// NewEngine создает пустой выбор
func NewEngine(availability AvailabilityChecker, logger Logger) *Engine {
	return &Engine{
		availability: availability,
		logger:       logger,
		selected:     make(map[int64]struct{}),
	}
}

// ToggleTimeSlot добавляет или убирает слот из выбора
// Недоступный слот не добавляется, возвращается ErrSlotUnavailable
func (e *Engine) ToggleTimeSlot(slotID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.selected[slotID]; ok {
		delete(e.selected, slotID)
		return nil
	}

	if !e.availability.CheckSlotAvailability(slotID) {
		return fmt.Errorf("%w: id=%d", ErrSlotUnavailable, slotID)
	}
	e.selected[slotID] = struct{}{}
	return nil
}

// SelectPeriodHours добавляет в выбор все доступные слоты из списка
func (e *Engine) SelectPeriodHours(slotIDs []int64) BulkResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addLocked(slotIDs)
}

// ClearPeriodSlots убирает слоты из выбора, возвращает число удаленных
func (e *Engine) ClearPeriodSlots(slotIDs []int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := 0
	for _, id := range slotIDs {
		if _, ok := e.selected[id]; ok {
			delete(e.selected, id)
			removed++
		}
	}
	return removed
}

// ApplySmartShortcut добавляет к выбору доступные слоты типового диапазона часов
func (e *Engine) ApplySmartShortcut(preset domain.SmartPreset) (BulkResult, error) {
	from, to, ok := preset.HourRange()
	if !ok {
		return BulkResult{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	ids := domain.SlotIDsInHours(e.availability.Slots(), from, to)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addLocked(ids), nil
}

// ClearAllTimeSlots очищает выбор
func (e *Engine) ClearAllTimeSlots() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = make(map[int64]struct{})
}

// RemoveUnavailableSlots перепроверяет выбор и убирает недоступные слоты
// Возвращает true, если что-то было удалено
func (e *Engine) RemoveUnavailableSlots() bool {
	return len(e.RemoveUnavailableSlotIDs()) > 0
}

// RemoveUnavailableSlotIDs как RemoveUnavailableSlots, но возвращает удаленные ID (по возрастанию)
func (e *Engine) RemoveUnavailableSlotIDs() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var removed []int64
	for id := range e.selected {
		if !e.availability.CheckSlotAvailability(id) {
			delete(e.selected, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		sortIDs(removed)
		e.logger.Warn("Selection: dropped unavailable slots %v", removed)
	}
	return removed
}

// Selected возвращает выбранные ID по возрастанию
func (e *Engine) Selected() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]int64, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func (e *Engine) addLocked(slotIDs []int64) BulkResult {
	res := BulkResult{Added: []int64{}, Rejected: []int64{}}
	for _, id := range slotIDs {
		if _, ok := e.selected[id]; ok {
			continue
		}
		if !e.availability.CheckSlotAvailability(id) {
			res.Rejected = append(res.Rejected, id)
			continue
		}
		e.selected[id] = struct{}{}
		res.Added = append(res.Added, id)
	}
	if len(res.Rejected) > 0 {
		e.logger.Info("Selection: skipped unavailable slots %v", res.Rejected)
	}
	return res
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
