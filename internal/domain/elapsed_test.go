package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

func facility(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		return time.FixedZone("COT", -5*60*60)
	}
	return loc
}

func TestIsSlotElapsed_GraceBuffer(t *testing.T) {
	loc := facility(t)
	now := time.Date(2024, 1, 1, 19, 31, 0, 0, loc)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	assert.False(t, IsSlotElapsed("19:45:00", day, now, 30*time.Minute))
	assert.True(t, IsSlotElapsed("19:45:00", day, now, 0))
}

func TestIsSlotElapsed(t *testing.T) {
	loc := facility(t)
	now := time.Date(2024, 1, 1, 19, 31, 0, 0, loc)
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	tests := []struct {
		name    string
		start   types.TimeString
		date    time.Time
		grace   time.Duration
		elapsed bool
	}{
		{name: "earlier hour today", start: "18:00:00", date: today, grace: 30 * time.Minute, elapsed: true},
		{name: "current hour started beyond grace", start: "19:00:00", date: today, grace: 30 * time.Minute, elapsed: true},
		{name: "current hour started within grace", start: "19:00:00", date: today, grace: 40 * time.Minute, elapsed: false},
		{name: "next hour today", start: "20:00:00", date: today, grace: 0, elapsed: false},
		{name: "yesterday", start: "23:00:00", date: today.AddDate(0, 0, -1), grace: 30 * time.Minute, elapsed: true},
		{name: "tomorrow", start: "06:00:00", date: today.AddDate(0, 0, 1), grace: 0, elapsed: false},
		{name: "invalid start", start: "bad", date: today, grace: 0, elapsed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.elapsed, IsSlotElapsed(tt.start, tt.date, now, tt.grace))
		})
	}
}

func TestIsSlotElapsed_UsesCalendarDateOfSelection(t *testing.T) {
	loc := facility(t)
	now := time.Date(2024, 1, 1, 19, 31, 0, 0, loc)
	// 2024-01-01 в UTC - это та же календарная дата, хотя момент другой
	selected := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSlotElapsed("10:00:00", selected, now, 30*time.Minute))
	assert.False(t, IsSlotElapsed("21:00:00", selected, now, 30*time.Minute))
}
