package submit_reservation

import (
	"context"
	"errors"
	"sync"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/reservationservice"
)

// UseCase конвейер отправки бронирования
// Одновременно выполняется не более одной отправки, очереди нет
type UseCase struct {
	mu sync.Mutex

	selection    SelectionEngine
	availability AvailabilityEngine
	schedule     ScheduleSource
	client       ReservationClient
	metrics      Metrics
	logger       Logger

	subScenarioID int64
	submitting    bool
	status        Status
	pending       *Intent
	last          *Result
}

// NewUseCase создает конвейер для одного подсценария
func NewUseCase(
	subScenarioID int64,
	selection SelectionEngine,
	availability AvailabilityEngine,
	schedule ScheduleSource,
	client ReservationClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		subScenarioID: subScenarioID,
		selection:     selection,
		availability:  availability,
		schedule:      schedule,
		client:        client,
		metrics:       metrics,
		logger:        logger,
		status:        StatusIdle,
	}
}

// Submit выполняет попытку отправки текущего выбора
// Все исходы сервиса возвращаются в Result; ошибка только для ErrSubmissionInProgress
func (uc *UseCase) Submit(ctx context.Context, req Request) (Result, error) {
	if err := uc.begin(); err != nil {
		return Result{}, err
	}

	// Новая попытка заменяет намерение, ожидавшее входа
	if uc.DiscardPendingIntent() {
		uc.logger.Info("SubmitReservation: sub_scenario=%d, pending intent replaced by a new submission", uc.subScenarioID)
	}

	uc.setStatus(StatusValidating)

	// 1. Локальная валидация
	cfg, hasDate := uc.schedule.QueryConfig()
	selected := uc.selection.Selected()
	if len(selected) == 0 {
		return uc.finish(Result{Status: StatusRejected, Message: msgNoSlots}), nil
	}
	if !hasDate {
		return uc.finish(Result{Status: StatusRejected, Message: msgNoDate}), nil
	}

	// 2. Проверка гонки: слоты могли стать занятыми после выбора
	if removed := uc.selection.RemoveUnavailableSlotIDs(); len(removed) > 0 {
		uc.logger.Warn("SubmitReservation: sub_scenario=%d, aborted, slots %v became unavailable", uc.subScenarioID, removed)
		return uc.finish(Result{Status: StatusRejected, Message: msgSlotsDropped, RemovedSlotIDs: removed}), nil
	}

	intent := Intent{
		SubScenarioID: uc.subScenarioID,
		SlotIDs:       uc.selection.Selected(),
		Config:        cfg,
	}

	// 3. Без аутентификации сохраняем намерение
	if req.UserID <= 0 {
		return uc.finish(uc.deferForAuth(intent)), nil
	}

	return uc.finish(uc.create(ctx, req.UserID, intent)), nil
}

// ResumeAfterAuth повторяет сохраненную отправку после успешной аутентификации
func (uc *UseCase) ResumeAfterAuth(ctx context.Context, userID int64) (Result, error) {
	if userID <= 0 {
		return Result{}, ErrInvalidUser
	}
	if err := uc.begin(); err != nil {
		return Result{}, err
	}

	uc.mu.Lock()
	intent := uc.pending
	uc.pending = nil
	uc.mu.Unlock()

	if intent == nil {
		uc.end()
		return Result{}, ErrNoPendingIntent
	}

	uc.setStatus(StatusValidating)
	uc.logger.Info("SubmitReservation: resuming pending submission for user=%d, slots=%v", userID, intent.SlotIDs)

	// Доступность должна относиться к тем же датам, что и намерение
	if current, ok := uc.availability.CurrentConfig(); !ok || !current.Equal(intent.Config) {
		uc.logger.Warn("SubmitReservation: pending intent for %s is outdated", intent.Config.Key())
		return uc.finish(Result{Status: StatusRejected, Message: msgIntentOutdated}), nil
	}

	var gone []int64
	for _, id := range intent.SlotIDs {
		if !uc.availability.CheckSlotAvailability(id) {
			gone = append(gone, id)
		}
	}
	if len(gone) > 0 {
		uc.selection.ClearPeriodSlots(gone)
		msg := msgSlotsDropped
		if len(gone) == len(intent.SlotIDs) {
			msg = msgIntentSlotsGone
		}
		uc.logger.Warn("SubmitReservation: pending slots %v became unavailable", gone)
		return uc.finish(Result{Status: StatusRejected, Message: msg, RemovedSlotIDs: gone}), nil
	}

	return uc.finish(uc.create(ctx, userID, *intent)), nil
}

// DiscardPendingIntent сбрасывает намерение, ожидающее входа
// Возвращает true, если намерение было
func (uc *UseCase) DiscardPendingIntent() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	had := uc.pending != nil
	uc.pending = nil
	return had
}

// IsSubmitting returns true while a submission is in flight
func (uc *UseCase) IsSubmitting() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.submitting
}

// Status текущее состояние конвейера
func (uc *UseCase) Status() Status {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.status
}

// PendingIntent возвращает намерение, ожидающее аутентификации
func (uc *UseCase) PendingIntent() (Intent, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pending == nil {
		return Intent{}, false
	}
	intent := *uc.pending
	intent.SlotIDs = append([]int64{}, uc.pending.SlotIDs...)
	return intent, true
}

// LastResult итог последней завершенной попытки
func (uc *UseCase) LastResult() (Result, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.last == nil {
		return Result{}, false
	}
	return *uc.last, true
}

func (uc *UseCase) create(ctx context.Context, userID int64, intent Intent) Result {
	uc.setStatus(StatusSubmitting)
	uc.logger.Info("SubmitReservation: user=%d, sub_scenario=%d, slots=%v, query=%s",
		userID, intent.SubScenarioID, intent.SlotIDs, intent.Config.Key())

	err := uc.client.CreateReservation(ctx, userID, toRequest(intent))
	if err == nil {
		uc.selection.ClearAllTimeSlots()
		uc.refresh(ctx, intent.Config)
		uc.logger.Info("SubmitReservation: user=%d, reservation created", userID)
		return Result{Status: StatusSucceeded, Message: msgSucceeded}
	}

	if errors.Is(err, reservationservice.ErrUnauthorized) {
		uc.logger.Warn("SubmitReservation: user=%d rejected as unauthenticated", userID)
		return uc.deferForAuth(intent)
	}

	uc.selection.ClearAllTimeSlots()

	if reservationservice.KindOf(err) == reservationservice.ErrorKindConflict {
		uc.logger.Warn("SubmitReservation: user=%d, conflict: %v", userID, err)
		uc.refresh(ctx, intent.Config)
		return Result{Status: StatusConflictRetry, Message: msgConflict, Err: err}
	}

	uc.logger.Error("SubmitReservation: user=%d, failed: %v", userID, err)
	return Result{Status: StatusFailed, Message: failureMessage(err), Err: err}
}

func (uc *UseCase) deferForAuth(intent Intent) Result {
	uc.mu.Lock()
	uc.pending = &intent
	uc.mu.Unlock()

	uc.logger.Info("SubmitReservation: authentication required, retained slots=%v", intent.SlotIDs)
	return Result{Status: StatusAuthRequired, Message: msgAuthRequired}
}

// refresh перезапрашивает доступность для текущей конфигурации
// Ошибка запроса остается в движке доступности и на исход отправки не влияет
func (uc *UseCase) refresh(ctx context.Context, fallback domain.AvailabilityQueryConfig) {
	cfg, ok := uc.schedule.QueryConfig()
	if !ok {
		cfg = fallback
	}
	if err := uc.availability.CheckAvailability(ctx, cfg); err != nil {
		uc.logger.Warn("SubmitReservation: availability refresh failed: %v", err)
	}
}

func (uc *UseCase) begin() error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.submitting {
		return ErrSubmissionInProgress
	}
	uc.submitting = true
	return nil
}

func (uc *UseCase) end() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.submitting = false
	uc.status = StatusIdle
}

// finish фиксирует итог и возвращает конвейер в idle
func (uc *UseCase) finish(res Result) Result {
	if uc.metrics != nil {
		uc.metrics.IncSubmission(string(res.Status))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	stored := res
	uc.last = &stored
	uc.submitting = false
	uc.status = StatusIdle
	return res
}

func (uc *UseCase) setStatus(s Status) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.status = s
}

func toRequest(intent Intent) reservationservice.CreateReservationRequest {
	body := reservationservice.CreateReservationRequest{
		SubScenarioID: intent.SubScenarioID,
		TimeSlotIDs:   append([]int64{}, intent.SlotIDs...),
		ReservationRange: reservationservice.ReservationRange{
			InitialDate: domain.FormatDate(intent.Config.InitialDate),
		},
		Weekdays: intent.Config.Weekdays.Ints(),
	}
	if intent.Config.FinalDate != nil {
		final := domain.FormatDate(*intent.Config.FinalDate)
		body.ReservationRange.FinalDate = &final
	}
	return body
}

func failureMessage(err error) string {
	var createErr *reservationservice.CreateError
	if errors.As(err, &createErr) && createErr.Message != "" {
		return msgFailed + ": " + createErr.Message
	}
	return msgFailed
}
