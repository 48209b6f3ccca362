package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	sessionRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/session"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/reservationservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/availability"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/schedule"
	"github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_reservation"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
)

var loc = time.FixedZone("COT", -5*60*60)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeAvailabilityService слоты 1..3 на 09:00, 10:00, 11:00
type fakeAvailabilityService struct {
	mu       sync.Mutex
	occupied map[int64]bool
	notFound bool
	calls    []availabilityservice.Query
}

func (f *fakeAvailabilityService) GetAvailability(_ context.Context, q availabilityservice.Query) ([]availabilityservice.SlotDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.notFound {
		return nil, fmt.Errorf("%w: id=%d", availabilityservice.ErrSubScenarioNotFound, q.SubScenarioID)
	}

	res := make([]availabilityservice.SlotDescriptor, 0, 3)
	for id := int64(1); id <= 3; id++ {
		res = append(res, availabilityservice.SlotDescriptor{
			ID:                    id,
			StartTime:             fmt.Sprintf("%02d:00:00", 8+id),
			EndTime:               fmt.Sprintf("%02d:00:00", 9+id),
			IsAvailableInAllDates: !f.occupied[id],
		})
	}
	return res, nil
}

func (f *fakeAvailabilityService) occupy(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.occupied[id] = true
}

func (f *fakeAvailabilityService) Calls() []availabilityservice.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]availabilityservice.Query{}, f.calls...)
}

type fakeReservationService struct {
	mu     sync.Mutex
	err    error
	bodies []reservationservice.CreateReservationRequest
	block  chan struct{}
	called chan struct{}
}

func (f *fakeReservationService) CreateReservation(_ context.Context, _ int64, body reservationservice.CreateReservationRequest) error {
	f.mu.Lock()
	f.bodies = append(f.bodies, body)
	err, block, called := f.err, f.block, f.called
	f.called = nil
	f.mu.Unlock()

	if called != nil {
		close(called)
	}
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeReservationService) Bodies() []reservationservice.CreateReservationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reservationservice.CreateReservationRequest{}, f.bodies...)
}

type fakeSessionMetrics struct {
	mu     sync.Mutex
	active int
}

func (f *fakeSessionMetrics) SetActiveSessions(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = n
}

func (f *fakeSessionMetrics) last() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

type env struct {
	avail    *fakeAvailabilityService
	res      *fakeReservationService
	sessions *fakeSessionMetrics
	deps     Deps
	opts     Options
}

func newEnv() *env {
	e := &env{
		avail:    &fakeAvailabilityService{occupied: map[int64]bool{}},
		res:      &fakeReservationService{},
		sessions: &fakeSessionMetrics{},
	}
	e.deps = Deps{
		AvailabilityClient: e.avail,
		ReservationClient:  e.res,
		TimeProvider:       fixedClock{now: time.Date(2024, 2, 1, 10, 0, 0, 0, loc)},
		Logger:             logger.NewNop(),
	}
	e.opts = Options{Grace: 30 * time.Minute, OpenHour: 6, CloseHour: 23, Location: loc}
	return e
}

func (e *env) mount(t *testing.T, query string, snapshot *availability.Snapshot) *Session {
	t.Helper()
	values, err := url.ParseQuery(query)
	require.NoError(t, err)

	s := New("s-1", 7, e.deps, e.opts)
	require.NoError(t, s.Mount(context.Background(), values, snapshot))
	return s
}

func TestMount_RestoresURLBeforeFirstFetch(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10&mode=range&endDate=2024-02-15", nil)

	calls := e.avail.Calls()
	require.Len(t, calls, 1, "exactly one fetch, no pre-restore default")
	assert.Equal(t, "2024-02-10", calls[0].InitialDate)
	require.NotNil(t, calls[0].FinalDate)
	assert.Equal(t, "2024-02-15", *calls[0].FinalDate)

	v := s.View()
	assert.Equal(t, "/scenarios/7?date=2024-02-10&endDate=2024-02-15&mode=range", v.Location)
	assert.True(t, v.Schedule.Config.HasDateRange)
	assert.Len(t, v.Slots, 3)
}

func TestMount_DefaultsToToday(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "", nil)

	calls := e.avail.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "2024-02-01", calls[0].InitialDate)
	assert.Nil(t, calls[0].FinalDate)

	v := s.View()
	assert.Equal(t, "/scenarios/7?date=2024-02-01&mode=single", v.Location)
	// 09:00 уже прошел при now=10:00
	assert.Equal(t, domain.AvailabilityOccupied, v.Slots[0].Availability)
	assert.True(t, v.Slots[0].Elapsed)
}

func TestMount_ReusesMatchingSnapshot(t *testing.T) {
	e := newEnv()
	snapshot := &availability.Snapshot{
		Config: domain.AvailabilityQueryConfig{
			SubScenarioID: 7,
			InitialDate:   time.Date(2024, 2, 10, 0, 0, 0, 0, loc),
			FinalDate:     ptr.Ptr(time.Date(2024, 2, 15, 0, 0, 0, 0, loc)),
			Weekdays:      domain.Weekdays{1, 3},
		},
		Descriptors: []availabilityservice.SlotDescriptor{
			{ID: 40, StartTime: "18:00:00", EndTime: "19:00:00", IsAvailableInAllDates: true},
		},
	}

	s := e.mount(t, "date=2024-02-10&mode=range&endDate=2024-02-15&weekdays=3,1", snapshot)

	assert.Empty(t, e.avail.Calls())
	v := s.View()
	require.Len(t, v.Slots, 1)
	assert.Equal(t, int64(40), v.Slots[0].ID)
}

func TestMount_IgnoresMismatchedSnapshot(t *testing.T) {
	e := newEnv()
	snapshot := &availability.Snapshot{
		Config: domain.AvailabilityQueryConfig{SubScenarioID: 7, InitialDate: time.Date(2024, 2, 9, 0, 0, 0, 0, loc)},
	}

	e.mount(t, "date=2024-02-10", snapshot)
	assert.Len(t, e.avail.Calls(), 1)
}

func TestMount_UnknownSubScenario(t *testing.T) {
	e := newEnv()
	e.avail.notFound = true

	s := New("s-1", 7, e.deps, e.opts)
	err := s.Mount(context.Background(), url.Values{}, nil)
	assert.ErrorIs(t, err, ErrSubScenarioNotFound)
}

func TestUpdateSchedule_RefetchesAndClearsSelection(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(1))}))

	err := s.UpdateSchedule(context.Background(), ScheduleUpdate{Date: ptr.Ptr(time.Date(2024, 2, 12, 0, 0, 0, 0, loc))})
	require.NoError(t, err)

	calls := e.avail.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "2024-02-12", calls[1].InitialDate)

	v := s.View()
	assert.Empty(t, v.SelectedSlotIDs)
	assert.Equal(t, "/scenarios/7?date=2024-02-12&mode=single", v.Location)
}

func TestUpdateSchedule_RangeWithWeekdays(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)

	err := s.UpdateSchedule(context.Background(), ScheduleUpdate{
		HasDateRange:        ptr.Ptr(true),
		HasWeekdaySelection: ptr.Ptr(true),
		EndDate:             ptr.Ptr(time.Date(2024, 2, 20, 0, 0, 0, 0, loc)),
		Weekdays:            ptr.Ptr([]int{5, 1}),
	})
	require.NoError(t, err)

	calls := e.avail.Calls()
	require.Len(t, calls, 2, "a batch of changes issues a single fetch")
	last := calls[1]
	assert.Equal(t, "2024-02-20", *last.FinalDate)
	assert.Equal(t, []int{1, 5}, last.Weekdays)
	assert.Contains(t, s.View().Location, "weekdays=1%2C5")
}

func TestUpdateSchedule_RejectsPastDate(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)

	err := s.UpdateSchedule(context.Background(), ScheduleUpdate{Date: ptr.Ptr(time.Date(2024, 1, 20, 0, 0, 0, 0, loc))})
	assert.ErrorIs(t, err, schedule.ErrDateInPast)
	assert.Len(t, e.avail.Calls(), 1)
}

func TestUpdateSchedule_UIOnlyChangeDoesNotFetch(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(2))}))

	require.NoError(t, s.UpdateSchedule(context.Background(), ScheduleUpdate{TogglePeriod: ptr.Ptr(domain.PeriodMorning)}))

	assert.Len(t, e.avail.Calls(), 1)
	v := s.View()
	assert.True(t, v.Schedule.Config.ExpandedPeriods[domain.PeriodMorning])
	assert.Equal(t, []int64{2}, v.SelectedSlotIDs)
}

func TestRefresh_ReconcilesSelection(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpSelectPeriod, SlotIDs: []int64{1, 2}}))

	e.avail.occupy(2)
	require.NoError(t, s.Refresh(context.Background()))

	v := s.View()
	assert.Equal(t, []int64{1}, v.SelectedSlotIDs)
	require.Len(t, v.Rejections, 1)
	assert.Contains(t, v.Rejections[0], "2")
	assert.False(t, v.Slots[1].Selected)
	assert.Equal(t, domain.AvailabilityOccupied, v.Slots[1].Availability)
}

func TestUpdateSelection_Operations(t *testing.T) {
	e := newEnv()
	e.avail.occupy(3)
	s := e.mount(t, "date=2024-02-10", nil)

	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(3))}))
	v := s.View()
	assert.Empty(t, v.SelectedSlotIDs)
	require.Len(t, v.Rejections, 1)

	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpSelectPeriod, Period: domain.PeriodMorning}))
	v = s.View()
	assert.Equal(t, []int64{1, 2}, v.SelectedSlotIDs)
	assert.Len(t, v.Rejections, 1, "slot 3 is skipped")

	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpClearPeriod, SlotIDs: []int64{1}}))
	assert.Equal(t, []int64{2}, s.View().SelectedSlotIDs)

	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpClearAll}))
	assert.Empty(t, s.View().SelectedSlotIDs)

	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpShortcut, Preset: domain.PresetMorning}))
	assert.Equal(t, []int64{1, 2}, s.View().SelectedSlotIDs)

	assert.ErrorIs(t, s.UpdateSelection(SelectionOp{Kind: OpShortcut, Preset: "night"}), ErrInvalidSelectionOp)
	assert.ErrorIs(t, s.UpdateSelection(SelectionOp{Kind: OpToggle}), ErrInvalidSelectionOp)
	assert.ErrorIs(t, s.UpdateSelection(SelectionOp{Kind: OpSelectPeriod}), ErrInvalidSelectionOp)
	assert.ErrorIs(t, s.UpdateSelection(SelectionOp{Kind: "invert"}), ErrInvalidSelectionOp)
}

func TestSubmit_EndToEnd(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)

	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(1))}))
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(2))}))

	res, err := s.Submit(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, submit_reservation.StatusSucceeded, res.Status)

	v := s.View()
	assert.Empty(t, v.SelectedSlotIDs)
	require.NotNil(t, v.LastSubmission)
	assert.Equal(t, submit_reservation.StatusSucceeded, v.LastSubmission.Status)

	calls := e.avail.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
	bodies := e.res.Bodies()
	require.Len(t, bodies, 1)
	assert.Equal(t, []int64{1, 2}, bodies[0].TimeSlotIDs)
}

func TestSubmit_ServerConflict(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpSelectPeriod, SlotIDs: []int64{1, 2}}))

	e.avail.occupy(2)
	e.res.err = &reservationservice.CreateError{Kind: reservationservice.ErrorKindConflict, StatusCode: 409}

	res, err := s.Submit(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, submit_reservation.StatusConflictRetry, res.Status)

	v := s.View()
	assert.Empty(t, v.SelectedSlotIDs)
	assert.Equal(t, domain.AvailabilityOccupied, v.Slots[1].Availability, "availability was refreshed")
}

func TestSubmit_AuthFlow(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(3))}))

	res, err := s.Submit(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, submit_reservation.StatusAuthRequired, res.Status)
	assert.True(t, s.View().PendingAuth)

	res, err = s.CompleteAuth(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, submit_reservation.StatusSucceeded, res.Status)
	assert.False(t, s.View().PendingAuth)
}

func TestManager_OpenAndGet(t *testing.T) {
	e := newEnv()
	repo := sessionRepo.NewRepository[*Session](time.Hour, e.deps.TimeProvider, e.sessions, logger.NewNop())
	m := NewManager(repo, e.deps, e.opts)

	s, err := m.Open(context.Background(), 7, url.Values{"date": {"2024-02-10"}}, nil)
	require.NoError(t, err)

	got, err := m.Get(context.Background(), s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get(context.Background(), "6f1c1c8e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Open(context.Background(), 0, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidSubScenario)

	e.avail.notFound = true
	_, err = m.Open(context.Background(), 8, nil, nil)
	assert.ErrorIs(t, err, ErrSubScenarioNotFound)
	assert.Equal(t, 1, e.sessions.last(), "failed open is not stored")
}

func TestSubmit_AuthenticatedSubmitDropsAbandonedIntent(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(3))}))

	res, err := s.Submit(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, submit_reservation.StatusAuthRequired, res.Status)

	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpClearAll}))
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(1))}))

	res, err = s.Submit(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, submit_reservation.StatusSucceeded, res.Status)
	assert.False(t, s.View().PendingAuth)

	_, err = s.CompleteAuth(context.Background(), 5)
	assert.ErrorIs(t, err, submit_reservation.ErrNoPendingIntent)

	bodies := e.res.Bodies()
	require.Len(t, bodies, 1, "slot 3 is never booked")
	assert.Equal(t, []int64{1}, bodies[0].TimeSlotIDs)
}

func TestUpdateSchedule_DropsPendingIntent(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(3))}))

	_, err := s.Submit(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, s.View().PendingAuth)

	require.NoError(t, s.UpdateSchedule(context.Background(), ScheduleUpdate{Date: ptr.Ptr(time.Date(2024, 2, 12, 0, 0, 0, 0, loc))}))

	v := s.View()
	assert.Empty(t, v.SelectedSlotIDs)
	assert.False(t, v.PendingAuth)

	_, err = s.CompleteAuth(context.Background(), 5)
	assert.ErrorIs(t, err, submit_reservation.ErrNoPendingIntent)
	assert.Empty(t, e.res.Bodies())
}

func TestUpdateSchedule_UIOnlyChangeKeepsPendingIntent(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(2))}))

	_, err := s.Submit(context.Background(), 0)
	require.NoError(t, err)

	require.NoError(t, s.UpdateSchedule(context.Background(), ScheduleUpdate{TogglePeriod: ptr.Ptr(domain.PeriodEvening)}))
	assert.True(t, s.View().PendingAuth)

	res, err := s.CompleteAuth(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, submit_reservation.StatusSucceeded, res.Status)
}

func TestSubmit_InProgressIsNotQueued(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(1))}))

	e.res.block = make(chan struct{})
	e.res.called = make(chan struct{})
	called := e.res.called

	done := make(chan submit_reservation.Result, 1)
	go func() {
		res, _ := s.Submit(context.Background(), 5)
		done <- res
	}()
	<-called

	assert.True(t, s.View().IsSubmitting)
	assert.Equal(t, submit_reservation.StatusSubmitting, s.View().SubmissionStatus)

	_, err := s.Submit(context.Background(), 5)
	assert.ErrorIs(t, err, submit_reservation.ErrSubmissionInProgress)

	close(e.res.block)
	assert.Equal(t, submit_reservation.StatusSucceeded, (<-done).Status)
	assert.Equal(t, submit_reservation.StatusIdle, s.View().SubmissionStatus)
}

func TestSession_OperationsWaitForSubmission(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)
	require.NoError(t, s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(1))}))

	e.res.block = make(chan struct{})
	e.res.called = make(chan struct{})
	called := e.res.called

	submitted := make(chan struct{})
	go func() {
		_, _ = s.Submit(context.Background(), 5)
		close(submitted)
	}()
	<-called

	toggled := make(chan error, 1)
	go func() {
		toggled <- s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: ptr.Ptr(int64(2))})
	}()

	select {
	case <-toggled:
		t.Fatal("selection changed while the submission was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(e.res.block)
	<-submitted
	require.NoError(t, <-toggled)
	assert.Equal(t, []int64{2}, s.View().SelectedSlotIDs, "toggle applies after the submission cleared the selection")
}

func TestSession_ConcurrentOperations(t *testing.T) {
	e := newEnv()
	s := e.mount(t, "date=2024-02-10", nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := int64(i%3 + 1)
			for j := 0; j < 20; j++ {
				_ = s.UpdateSelection(SelectionOp{Kind: OpToggle, SlotID: &id})
				switch j % 5 {
				case 0:
					_ = s.Refresh(context.Background())
				case 1:
					_, _ = s.Submit(context.Background(), 5)
				case 2:
					_ = s.UpdateSchedule(context.Background(), ScheduleUpdate{Date: ptr.Ptr(time.Date(2024, 2, 10+i%2, 0, 0, 0, 0, loc))})
				case 3:
					_, _ = s.Submit(context.Background(), 0)
				}
				_ = s.View()
			}
		}(i)
	}
	wg.Wait()

	v := s.View()
	assert.False(t, v.IsSubmitting)
	for _, slot := range v.Slots {
		if slot.Selected {
			assert.Equal(t, domain.AvailabilityAvailable, slot.Availability)
		}
	}
}
