package domain

import (
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Availability состояние доступности слота
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityOccupied  Availability = "occupied"
	AvailabilityUnknown   Availability = "unknown"
)

// TimeSlot бронируемый слот (обычно один час) подсценария
// Availability меняет только движок доступности
type TimeSlot struct {
	ID           int64
	HourLabel    string            // производное, например "2 PM"
	StartTime    *types.TimeString // только для слотов из бэкенда
	EndTime      *types.TimeString
	Availability Availability
	Elapsed      bool // слот на сегодня уже прошел (с учетом буфера)
	Synthetic    bool // ID - номер часа, записей в бэкенде нет
}

// IsAvailable returns true if the slot can be selected right now
func (s *TimeSlot) IsAvailable() bool {
	return s.Availability == AvailabilityAvailable
}

// IsOccupied returns true if the slot was last observed as occupied
func (s *TimeSlot) IsOccupied() bool {
	return s.Availability == AvailabilityOccupied
}

// Hour возвращает час начала слота
func (s *TimeSlot) Hour() (int, bool) {
	if s.StartTime != nil {
		h, err := s.StartTime.Hour()
		if err != nil {
			return 0, false
		}
		return h, true
	}
	if s.Synthetic && s.ID >= 0 && s.ID <= 23 {
		return int(s.ID), true
	}
	return 0, false
}

// NewTimeSlotFromDescriptor конвертирует описание слота из бэкенда в TimeSlot
func NewTimeSlotFromDescriptor(id int64, startTime, endTime string, isAvailableInAllDates bool) (TimeSlot, error) {
	start, err := types.NewTimeStringFromString(startTime)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("slot id=%d: startTime: %w", id, err)
	}
	end, err := types.NewTimeStringFromString(endTime)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("slot id=%d: endTime: %w", id, err)
	}

	hour, _ := start.Hour()

	availability := AvailabilityOccupied
	if isAvailableInAllDates {
		availability = AvailabilityAvailable
	}

	return TimeSlot{
		ID:           id,
		HourLabel:    FormatHourLabel(hour),
		StartTime:    &start,
		EndTime:      &end,
		Availability: availability,
	}, nil
}

// SyntheticTimeSlots строит почасовую сетку [openHour, closeHour) с неизвестной доступностью
// Используется, пока запрос доступности не выполнен
func SyntheticTimeSlots(openHour, closeHour int) []TimeSlot {
	if openHour < 0 {
		openHour = 0
	}
	if closeHour > 24 {
		closeHour = 24
	}

	slots := make([]TimeSlot, 0, closeHour-openHour)
	for h := openHour; h < closeHour; h++ {
		slots = append(slots, TimeSlot{
			ID:           int64(h),
			HourLabel:    FormatHourLabel(h),
			Availability: AvailabilityUnknown,
			Synthetic:    true,
		})
	}
	return slots
}

// FormatHourLabel форматирует час в 12-часовом формате: 0 -> "12 AM", 14 -> "2 PM"
func FormatHourLabel(hour int) string {
	hour = ((hour % 24) + 24) % 24

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}

	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d %s", h, suffix)
}
