package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// Configurator владеет выбором дат, режимом и днями недели
// Любое изменение, меняющее конфигурацию запроса доступности, уведомляет подписчиков
type Configurator struct {
	mu sync.Mutex

	subScenarioID int64
	timeProvider  TimeProvider
	logger        Logger

	state     State
	memo      *domain.AvailabilityQueryConfig
	listeners []Listener
}

// NewConfigurator создает конфигурацию: один день, начиная с сегодняшней даты площадки
func NewConfigurator(subScenarioID int64, timeProvider TimeProvider, logger Logger) *Configurator {
	c := &Configurator{
		subScenarioID: subScenarioID,
		timeProvider:  timeProvider,
		logger:        logger,
	}

	today := c.today()
	c.state = State{
		Range:  domain.DateRangeSelection{From: &today},
		Config: domain.ScheduleConfig{ExpandedPeriods: make(map[domain.Period]bool)},
	}
	cfg, ok := c.buildQueryConfig()
	if ok {
		c.memo = &cfg
	}
	return c
}

// Subscribe добавляет подписчика на изменение конфигурации запроса
func (c *Configurator) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// State возвращает копию текущего состояния
func (c *Configurator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// SubScenarioID возвращает подсценарий
func (c *Configurator) SubScenarioID() int64 {
	return c.subScenarioID
}

// QueryConfig возвращает мемоизированную конфигурацию запроса доступности
// ok=false, если дата начала не выбрана
func (c *Configurator) QueryConfig() (domain.AvailabilityQueryConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.memo == nil {
		return domain.AvailabilityQueryConfig{}, false
	}
	return cloneQuery(*c.memo), true
}

// MinStartDate самая ранняя допустимая дата начала (сегодня)
func (c *Configurator) MinStartDate() time.Time {
	return c.today()
}

// MinEndDate самая ранняя допустимая дата окончания (день после даты начала)
func (c *Configurator) MinEndDate() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Range.From == nil {
		return nil
	}
	next := c.state.Range.From.AddDate(0, 0, 1)
	return &next
}

// SetHasDateRange переключает режим диапазона
// Выключение сбрасывает дату окончания и выбор дней недели
func (c *Configurator) SetHasDateRange(on bool) {
	c.mutate(func(s *State) error {
		s.Config.HasDateRange = on
		if !on {
			s.Range.To = nil
			s.Config.HasWeekdaySelection = false
			s.Weekdays = domain.Weekdays{}
		}
		return nil
	})
}

// SetHasWeekdaySelection переключает выбор дней недели; выключение очищает дни
func (c *Configurator) SetHasWeekdaySelection(on bool) error {
	return c.mutate(func(s *State) error {
		if on && !s.Config.HasDateRange {
			return ErrRangeModeRequired
		}
		s.Config.HasWeekdaySelection = on
		if !on {
			s.Weekdays = domain.Weekdays{}
		}
		return nil
	})
}

// SetFrom устанавливает дату начала
// Дата раньше сегодняшней отклоняется; если дата окончания не позже новой даты начала, она сбрасывается
func (c *Configurator) SetFrom(date time.Time) error {
	today := c.today()
	day := domain.DateOnly(date, today.Location())

	return c.mutate(func(s *State) error {
		if day.Before(today) {
			return fmt.Errorf("%w: %s < %s", ErrDateInPast, domain.FormatDate(day), domain.FormatDate(today))
		}
		s.Range.From = &day
		if s.Range.To != nil && !s.Range.To.After(day) {
			s.Range.To = nil
		}
		return nil
	})
}

// SetTo устанавливает (или сбрасывает при nil) дату окончания
func (c *Configurator) SetTo(date *time.Time) error {
	today := c.today()

	return c.mutate(func(s *State) error {
		if date == nil {
			s.Range.To = nil
			return nil
		}
		if !s.Config.HasDateRange {
			return ErrRangeModeRequired
		}
		day := domain.DateOnly(*date, today.Location())
		if s.Range.From == nil || !day.After(*s.Range.From) {
			return fmt.Errorf("%w: %s", ErrEndNotAfterStart, domain.FormatDate(day))
		}
		s.Range.To = &day
		return nil
	})
}

// ToggleWeekday добавляет или убирает день недели
func (c *Configurator) ToggleWeekday(day int) error {
	return c.mutate(func(s *State) error {
		if !s.Config.HasDateRange || !s.Config.HasWeekdaySelection {
			return ErrWeekdaySelectionDisabled
		}
		next, err := s.Weekdays.Toggle(day)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWeekday, err)
		}
		s.Weekdays = next
		return nil
	})
}

// SetWeekdays заменяет набор дней недели
func (c *Configurator) SetWeekdays(days []int) error {
	return c.mutate(func(s *State) error {
		if !s.Config.HasDateRange || !s.Config.HasWeekdaySelection {
			if len(days) == 0 {
				return nil
			}
			return ErrWeekdaySelectionDisabled
		}
		next, err := domain.NewWeekdays(days...)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWeekday, err)
		}
		s.Weekdays = next
		return nil
	})
}

// TogglePeriod раскрывает или сворачивает группу часов (только UI)
func (c *Configurator) TogglePeriod(p domain.Period) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, p)
	}
	return c.mutate(func(s *State) error {
		s.Config.ExpandedPeriods[p] = !s.Config.ExpandedPeriods[p]
		return nil
	})
}

// Restore применяет состояние целиком (восстановление из URL)
// Состояние нормализуется теми же правилами, что и пошаговые изменения,
// кроме запрета прошедшей даты начала: ссылка восстанавливается без подмены дат
func (c *Configurator) Restore(st State) {
	today := c.today()

	c.mutate(func(s *State) error {
		next := st.Clone()
		if len(next.Config.ExpandedPeriods) == 0 {
			next.Config.ExpandedPeriods = s.Config.ExpandedPeriods
		}

		if next.Range.From != nil {
			from := domain.DateOnly(*next.Range.From, today.Location())
			next.Range.From = &from
		}
		if next.Range.From == nil {
			next.Range.From = &today
		} else if next.Range.From.Before(today) {
			// Восстанавливаем как есть: все слоты такой даты будут помечены прошедшими
			c.logger.Warn("Schedule: restored start date %s is before today %s",
				domain.FormatDate(*next.Range.From), domain.FormatDate(today))
		}

		if next.Range.To != nil {
			to := domain.DateOnly(*next.Range.To, today.Location())
			next.Range.To = &to
		}
		if !next.Config.HasDateRange {
			next.Range.To = nil
			next.Config.HasWeekdaySelection = false
		}
		if next.Range.To != nil && !next.Range.To.After(*next.Range.From) {
			next.Range.To = nil
		}
		if !next.Config.HasWeekdaySelection {
			next.Weekdays = domain.Weekdays{}
		}

		*s = next
		return nil
	})
}

// mutate применяет изменение атомарно и уведомляет подписчиков, если изменилась конфигурация запроса
func (c *Configurator) mutate(fn func(s *State) error) error {
	c.mu.Lock()

	next := c.state.Clone()
	if err := fn(&next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next

	cfg, ok := c.buildQueryConfig()
	changed := ok && (c.memo == nil || !c.memo.Equal(cfg))
	if changed {
		c.memo = &cfg
	}
	listeners := append([]Listener{}, c.listeners...)
	c.mu.Unlock()

	if !changed {
		return nil
	}

	c.logger.Info("Schedule: query config changed: %s", cfg.Key())
	for _, l := range listeners {
		l(cloneQuery(cfg))
	}
	return nil
}

// buildQueryConfig вычисляет параметры запроса из текущего состояния (под блокировкой)
func (c *Configurator) buildQueryConfig() (domain.AvailabilityQueryConfig, bool) {
	s := c.state
	if s.Range.From == nil {
		return domain.AvailabilityQueryConfig{}, false
	}

	cfg := domain.AvailabilityQueryConfig{
		SubScenarioID: c.subScenarioID,
		InitialDate:   *s.Range.From,
	}
	if s.Config.HasDateRange && s.Range.To != nil {
		to := *s.Range.To
		cfg.FinalDate = &to
		if s.Config.HasWeekdaySelection && len(s.Weekdays) > 0 {
			cfg.Weekdays = append(domain.Weekdays{}, s.Weekdays...)
		}
	}
	return cfg, true
}

func (c *Configurator) today() time.Time {
	now := c.timeProvider.Now()
	return domain.DateOnly(now, now.Location())
}

func cloneQuery(cfg domain.AvailabilityQueryConfig) domain.AvailabilityQueryConfig {
	res := cfg
	if cfg.FinalDate != nil {
		f := *cfg.FinalDate
		res.FinalDate = &f
	}
	res.Weekdays = append(domain.Weekdays(nil), cfg.Weekdays...)
	return res
}
