package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/availability"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/schedule"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/selection"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/urlstate"
	"github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_reservation"
)

// Session страница планирования одного подсценария
// Компоненты владеют своим состоянием, сессия задает порядок вызовов между ними
type Session struct {
	id            string
	subScenarioID int64

	schedule     *schedule.Configurator
	availability *availability.Engine
	selection    *selection.Engine
	submission   *submit_reservation.UseCase
	url          *urlstate.Adapter
	timeProvider TimeProvider
	logger       Logger

	// ops упорядочивает публичные операции сессии; View его не берет
	ops sync.Mutex

	mu         sync.Mutex
	pending    *domain.AvailabilityQueryConfig // запрос, ожидающий выполнения
	rejections []string
}

// New собирает сессию; до Mount запросы доступности не выполняются
func New(id string, subScenarioID int64, deps Deps, opts Options) *Session {
	s := &Session{
		id:            id,
		subScenarioID: subScenarioID,
		timeProvider:  deps.TimeProvider,
		logger:        deps.Logger,
	}

	loc := opts.Location
	if loc == nil {
		loc = deps.TimeProvider.Now().Location()
	}

	s.schedule = schedule.NewConfigurator(subScenarioID, deps.TimeProvider, deps.Logger)
	s.availability = availability.NewEngine(deps.AvailabilityClient, deps.TimeProvider, deps.Metrics, deps.Logger, availability.Options{
		Grace:     opts.Grace,
		OpenHour:  opts.OpenHour,
		CloseHour: opts.CloseHour,
	})
	s.selection = selection.NewEngine(s.availability, deps.Logger)
	s.submission = submit_reservation.NewUseCase(subScenarioID, s.selection, s.availability, s.schedule,
		deps.ReservationClient, deps.Metrics, deps.Logger)
	s.url = urlstate.NewAdapter(fmt.Sprintf("/scenarios/%d", subScenarioID), loc, deps.Logger)

	s.schedule.Subscribe(s.onQueryChange)
	s.availability.Subscribe(s.onAvailabilityChange)
	return s
}

// ID идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// Mount восстанавливает конфигурацию из URL и только затем выполняет первый запрос доступности
// Если снимок совпадает с восстановленной конфигурацией, запрос не выполняется
func (s *Session) Mount(ctx context.Context, values url.Values, snapshot *availability.Snapshot) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if snapshot != nil {
		s.availability.Seed(*snapshot)
	}

	s.url.Restore(s.schedule, values)
	s.url.Sync(s.schedule.State())
	s.takePending()

	cfg, ok := s.schedule.QueryConfig()
	if !ok {
		return nil
	}
	if s.availability.UseSnapshot(cfg) {
		return nil
	}

	err := s.fetch(ctx, cfg)
	if errors.Is(err, availabilityservice.ErrSubScenarioNotFound) {
		return fmt.Errorf("%w: id=%d", ErrSubScenarioNotFound, s.subScenarioID)
	}
	return nil
}

// UpdateSchedule применяет изменения дат и дней недели
// При первой ошибке остальные поля не применяются; уже примененные изменения сохраняются
func (s *Session) UpdateSchedule(ctx context.Context, u ScheduleUpdate) error {
	s.ops.Lock()
	defer s.ops.Unlock()
	s.resetRejections()

	err := s.applySchedule(u)

	s.url.Sync(s.schedule.State())
	s.flush(ctx)
	return err
}

// Refresh повторяет запрос доступности для текущей конфигурации
func (s *Session) Refresh(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()
	s.resetRejections()

	cfg, ok := s.schedule.QueryConfig()
	if !ok {
		return ErrNoDateSelected
	}
	s.takePending()
	_ = s.fetch(ctx, cfg)
	return nil
}

// UpdateSelection выполняет операцию над выбором слотов
// Отказы по доступности не считаются ошибкой и попадают в View.Rejections
func (s *Session) UpdateSelection(op SelectionOp) error {
	s.ops.Lock()
	defer s.ops.Unlock()
	s.resetRejections()

	switch op.Kind {
	case OpToggle:
		if op.SlotID == nil {
			return fmt.Errorf("%w: slotId is required", ErrInvalidSelectionOp)
		}
		if err := s.selection.ToggleTimeSlot(*op.SlotID); err != nil {
			if errors.Is(err, selection.ErrSlotUnavailable) {
				s.addRejection(fmt.Sprintf(msgSlotUnavailable, *op.SlotID))
				return nil
			}
			return err
		}
		return nil

	case OpSelectPeriod:
		ids, err := s.periodSlotIDs(op)
		if err != nil {
			return err
		}
		res := s.selection.SelectPeriodHours(ids)
		s.rejectBulk(res)
		return nil

	case OpClearPeriod:
		ids, err := s.periodSlotIDs(op)
		if err != nil {
			return err
		}
		s.selection.ClearPeriodSlots(ids)
		return nil

	case OpShortcut:
		res, err := s.selection.ApplySmartShortcut(op.Preset)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSelectionOp, err)
		}
		s.rejectBulk(res)
		return nil

	case OpClearAll:
		s.selection.ClearAllTimeSlots()
		return nil

	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidSelectionOp, op.Kind)
	}
}

// Submit отправляет текущий выбор; userID=0 означает, что пользователь не вошел
func (s *Session) Submit(ctx context.Context, userID int64) (submit_reservation.Result, error) {
	if err := s.lockForSubmission(); err != nil {
		return submit_reservation.Result{}, err
	}
	defer s.ops.Unlock()

	s.resetRejections()
	return s.submission.Submit(ctx, submit_reservation.Request{UserID: userID})
}

// CompleteAuth возобновляет отложенную отправку после входа
func (s *Session) CompleteAuth(ctx context.Context, userID int64) (submit_reservation.Result, error) {
	if err := s.lockForSubmission(); err != nil {
		return submit_reservation.Result{}, err
	}
	defer s.ops.Unlock()

	s.resetRejections()
	return s.submission.ResumeAfterAuth(ctx, userID)
}

// lockForSubmission не ставит отправку в очередь за уже идущей отправкой
func (s *Session) lockForSubmission() error {
	if s.ops.TryLock() {
		return nil
	}
	if s.submission.IsSubmitting() {
		return submit_reservation.ErrSubmissionInProgress
	}
	s.ops.Lock()
	return nil
}

// View собирает состояние сессии
func (s *Session) View() View {
	avail := s.availability.State()
	selected := s.selection.Selected()

	isSelected := make(map[int64]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
	}

	slots := make([]SlotView, len(avail.Slots))
	for i, slot := range avail.Slots {
		slots[i] = SlotView{TimeSlot: slot, Selected: isSelected[slot.ID]}
	}

	v := View{
		SessionID:         s.id,
		SubScenarioID:     s.subScenarioID,
		Location:          s.url.Location(),
		Schedule:          s.schedule.State(),
		MinDate:           s.schedule.MinStartDate(),
		MinEndDate:        s.schedule.MinEndDate(),
		Slots:             slots,
		SelectedSlotIDs:   selected,
		AvailabilityError: avail.Err,
		IsLoading:         avail.IsLoading,
		IsSubmitting:      s.submission.IsSubmitting(),
		SubmissionStatus:  s.submission.Status(),
	}
	if last, ok := s.submission.LastResult(); ok {
		v.LastSubmission = &last
	}
	_, v.PendingAuth = s.submission.PendingIntent()

	s.mu.Lock()
	v.Rejections = append([]string{}, s.rejections...)
	s.mu.Unlock()

	return v
}

func (s *Session) applySchedule(u ScheduleUpdate) error {
	if u.HasDateRange != nil {
		s.schedule.SetHasDateRange(*u.HasDateRange)
	}
	if u.HasWeekdaySelection != nil {
		if err := s.schedule.SetHasWeekdaySelection(*u.HasWeekdaySelection); err != nil {
			return err
		}
	}
	if u.Date != nil {
		if err := s.schedule.SetFrom(*u.Date); err != nil {
			return err
		}
	}
	if u.ClearEndDate {
		if err := s.schedule.SetTo(nil); err != nil {
			return err
		}
	} else if u.EndDate != nil {
		if err := s.schedule.SetTo(u.EndDate); err != nil {
			return err
		}
	}
	if u.Weekdays != nil {
		if err := s.schedule.SetWeekdays(*u.Weekdays); err != nil {
			return err
		}
	}
	if u.ToggleWeekday != nil {
		if err := s.schedule.ToggleWeekday(*u.ToggleWeekday); err != nil {
			return err
		}
	}
	if u.TogglePeriod != nil {
		if err := s.schedule.TogglePeriod(*u.TogglePeriod); err != nil {
			return err
		}
	}
	return nil
}

// onQueryChange вызывается конфигуратором при изменении параметров запроса
// До восстановления из URL запрос только откладывается
func (s *Session) onQueryChange(cfg domain.AvailabilityQueryConfig) {
	s.mu.Lock()
	s.pending = &cfg
	s.mu.Unlock()

	if !s.url.HasRestoredFromURL() {
		return
	}
	s.selection.ClearAllTimeSlots()
	if s.submission.DiscardPendingIntent() {
		s.logger.Info("Session %s: pending submission dropped, query changed to %s", s.id, cfg.Key())
	}
}

// onAvailabilityChange сверяет выбор с каждой новой коллекцией слотов,
// в том числе с обновлением после отправки
func (s *Session) onAvailabilityChange() {
	if removed := s.selection.RemoveUnavailableSlotIDs(); len(removed) > 0 {
		s.addRejection(fmt.Sprintf(msgSelectionReconciled, joinIDs(removed)))
	}
}

// flush выполняет отложенный запрос, если восстановление из URL уже выполнено
func (s *Session) flush(ctx context.Context) {
	if !s.url.HasRestoredFromURL() {
		return
	}
	cfg := s.takePending()
	if cfg == nil {
		return
	}
	_ = s.fetch(ctx, *cfg)
}

func (s *Session) takePending() *domain.AvailabilityQueryConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.pending
	s.pending = nil
	return cfg
}

// fetch запрашивает доступность; выбор сверяется в onAvailabilityChange
// Ошибка запроса остается в состоянии движка доступности
func (s *Session) fetch(ctx context.Context, cfg domain.AvailabilityQueryConfig) error {
	err := s.availability.CheckAvailability(ctx, cfg)
	switch {
	case err == nil:
		return nil
	case availability.IsTransient(err):
		s.logger.Info("Session %s: %v", s.id, err)
	default:
		s.logger.Warn("Session %s: availability fetch failed: %v", s.id, err)
	}
	return err
}

func (s *Session) periodSlotIDs(op SelectionOp) ([]int64, error) {
	if op.Period == "" {
		if len(op.SlotIDs) == 0 {
			return nil, fmt.Errorf("%w: period or slotIds is required", ErrInvalidSelectionOp)
		}
		return op.SlotIDs, nil
	}
	from, to, ok := op.Period.HourRange()
	if !ok {
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidSelectionOp, op.Period)
	}
	return domain.SlotIDsInHours(s.availability.Slots(), from, to), nil
}

func (s *Session) rejectBulk(res selection.BulkResult) {
	if len(res.Rejected) > 0 {
		s.addRejection(fmt.Sprintf(msgSlotsSkipped, joinIDs(res.Rejected)))
	}
}

func (s *Session) addRejection(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections = append(s.rejections, msg)
}

func (s *Session) resetRejections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections = nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
