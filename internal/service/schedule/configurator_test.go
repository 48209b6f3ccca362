package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
)

var loc = time.FixedZone("COT", -5*60*60)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func newConfigurator(t *testing.T) (*Configurator, *[]domain.AvailabilityQueryConfig) {
	t.Helper()
	c := NewConfigurator(7, fixedClock{now: time.Date(2024, 2, 1, 10, 0, 0, 0, loc)}, logger.NewNop())
	calls := &[]domain.AvailabilityQueryConfig{}
	c.Subscribe(func(cfg domain.AvailabilityQueryConfig) {
		*calls = append(*calls, cfg)
	})
	return c, calls
}

func TestNewConfigurator_DefaultsToToday(t *testing.T) {
	c, _ := newConfigurator(t)

	st := c.State()
	require.NotNil(t, st.Range.From)
	assert.Equal(t, "2024-02-01", domain.FormatDate(*st.Range.From))
	assert.Nil(t, st.Range.To)
	assert.False(t, st.Config.HasDateRange)

	cfg, ok := c.QueryConfig()
	require.True(t, ok)
	assert.Equal(t, int64(7), cfg.SubScenarioID)
	assert.Nil(t, cfg.FinalDate)
	assert.Empty(t, cfg.Weekdays)
	assert.Equal(t, "2024-02-01", domain.FormatDate(c.MinStartDate()))
}

func TestSetFrom_RejectsPastDate(t *testing.T) {
	c, calls := newConfigurator(t)

	err := c.SetFrom(date(2024, 1, 31))
	assert.ErrorIs(t, err, ErrDateInPast)
	assert.Empty(t, *calls)

	require.NoError(t, c.SetFrom(date(2024, 2, 1)))
	assert.Empty(t, *calls, "same date must not trigger a new query")

	require.NoError(t, c.SetFrom(date(2024, 2, 5)))
	require.Len(t, *calls, 1)
	assert.Equal(t, "2024-02-05", domain.FormatDate((*calls)[0].InitialDate))
	assert.Equal(t, "2024-02-06", domain.FormatDate(*c.MinEndDate()))
}

func TestSetTo_Rules(t *testing.T) {
	c, _ := newConfigurator(t)

	assert.ErrorIs(t, c.SetTo(ptr.Ptr(date(2024, 2, 5))), ErrRangeModeRequired)

	c.SetHasDateRange(true)
	require.NoError(t, c.SetFrom(date(2024, 2, 10)))

	assert.ErrorIs(t, c.SetTo(ptr.Ptr(date(2024, 2, 10))), ErrEndNotAfterStart)
	assert.ErrorIs(t, c.SetTo(ptr.Ptr(date(2024, 2, 9))), ErrEndNotAfterStart)

	require.NoError(t, c.SetTo(ptr.Ptr(date(2024, 2, 15))))
	cfg, _ := c.QueryConfig()
	require.NotNil(t, cfg.FinalDate)
	assert.Equal(t, "2024-02-15", domain.FormatDate(*cfg.FinalDate))

	require.NoError(t, c.SetTo(nil))
	assert.Nil(t, c.State().Range.To)
}

func TestSetFrom_AfterToClearsTo(t *testing.T) {
	c, _ := newConfigurator(t)
	c.SetHasDateRange(true)
	require.NoError(t, c.SetFrom(date(2024, 2, 10)))
	require.NoError(t, c.SetTo(ptr.Ptr(date(2024, 2, 15))))

	require.NoError(t, c.SetFrom(date(2024, 2, 15)))
	assert.Nil(t, c.State().Range.To)

	require.NoError(t, c.SetTo(ptr.Ptr(date(2024, 2, 20))))
	require.NoError(t, c.SetFrom(date(2024, 2, 12)))
	require.NotNil(t, c.State().Range.To, "earlier start keeps the end date")
}

func TestSetHasDateRange_OffClearsEndAndWeekdays(t *testing.T) {
	c, calls := newConfigurator(t)
	c.SetHasDateRange(true)
	require.NoError(t, c.SetTo(ptr.Ptr(date(2024, 2, 8))))
	require.NoError(t, c.SetHasWeekdaySelection(true))
	require.NoError(t, c.ToggleWeekday(3))
	require.NoError(t, c.ToggleWeekday(1))

	cfg, _ := c.QueryConfig()
	assert.Equal(t, domain.Weekdays{1, 3}, cfg.Weekdays)

	c.SetHasDateRange(false)
	st := c.State()
	assert.Nil(t, st.Range.To)
	assert.False(t, st.Config.HasWeekdaySelection)
	assert.Empty(t, st.Weekdays)

	last := (*calls)[len(*calls)-1]
	assert.Nil(t, last.FinalDate)
	assert.Empty(t, last.Weekdays)
}

func TestWeekdaySelection(t *testing.T) {
	c, _ := newConfigurator(t)

	assert.ErrorIs(t, c.SetHasWeekdaySelection(true), ErrRangeModeRequired)
	assert.ErrorIs(t, c.ToggleWeekday(1), ErrWeekdaySelectionDisabled)

	c.SetHasDateRange(true)
	require.NoError(t, c.SetHasWeekdaySelection(true))
	require.NoError(t, c.SetWeekdays([]int{5, 1, 5}))
	assert.Equal(t, domain.Weekdays{1, 5}, c.State().Weekdays)

	assert.ErrorIs(t, c.ToggleWeekday(9), ErrInvalidWeekday)

	require.NoError(t, c.SetHasWeekdaySelection(false))
	assert.Empty(t, c.State().Weekdays)
}

func TestTogglePeriod_DoesNotChangeQuery(t *testing.T) {
	c, calls := newConfigurator(t)

	require.NoError(t, c.TogglePeriod(domain.PeriodMorning))
	assert.True(t, c.State().Config.ExpandedPeriods[domain.PeriodMorning])
	assert.Empty(t, *calls)

	assert.ErrorIs(t, c.TogglePeriod("night"), ErrInvalidPeriod)
}

func TestRestore_Normalizes(t *testing.T) {
	c, calls := newConfigurator(t)

	c.Restore(State{
		Range: domain.DateRangeSelection{
			From: ptr.Ptr(date(2024, 2, 10)),
			To:   ptr.Ptr(date(2024, 2, 10)),
		},
		Config:   domain.ScheduleConfig{HasDateRange: true, HasWeekdaySelection: false},
		Weekdays: domain.Weekdays{1},
	})

	st := c.State()
	assert.Equal(t, "2024-02-10", domain.FormatDate(*st.Range.From))
	assert.Nil(t, st.Range.To, "end equal to start is dropped")
	assert.Empty(t, st.Weekdays, "weekdays without weekday mode are dropped")
	require.Len(t, *calls, 1)

	c.Restore(State{
		Range:  domain.DateRangeSelection{From: ptr.Ptr(date(2024, 2, 10)), To: ptr.Ptr(date(2024, 2, 15))},
		Config: domain.ScheduleConfig{HasDateRange: false},
	})
	assert.Nil(t, c.State().Range.To, "single day mode ignores end date")
	assert.Len(t, *calls, 1, "same query config must not notify again")
}

func TestRestore_KeepsPastStartDate(t *testing.T) {
	c, _ := newConfigurator(t)

	c.Restore(State{Range: domain.DateRangeSelection{From: ptr.Ptr(date(2024, 1, 15))}})

	cfg, ok := c.QueryConfig()
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", domain.FormatDate(cfg.InitialDate))
}

func TestState_SameSchedule(t *testing.T) {
	a := State{
		Range:    domain.DateRangeSelection{From: ptr.Ptr(date(2024, 2, 10))},
		Config:   domain.ScheduleConfig{ExpandedPeriods: map[domain.Period]bool{domain.PeriodMorning: true}},
		Weekdays: domain.Weekdays{},
	}
	b := a.Clone()
	b.Config.ExpandedPeriods[domain.PeriodEvening] = true

	assert.True(t, a.SameSchedule(b))
	assert.False(t, a.Config.ExpandedPeriods[domain.PeriodEvening], "clone is independent")

	b.Range.From = ptr.Ptr(date(2024, 2, 11))
	assert.False(t, a.SameSchedule(b))
}
