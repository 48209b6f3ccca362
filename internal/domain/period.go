package domain

// Period группа часов в сетке слотов (утро/день/вечер)
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// SmartPreset быстрый выбор типового диапазона часов
type SmartPreset string

const (
	PresetMorning   SmartPreset = "morning"
	PresetAfternoon SmartPreset = "afternoon"
	PresetEvening   SmartPreset = "evening"
	PresetAllDay    SmartPreset = "all"
)

// Periods в порядке отображения
var Periods = []Period{PeriodMorning, PeriodAfternoon, PeriodEvening}

// HourRange возвращает полуинтервал часов [from, to) периода
func (p Period) HourRange() (from, to int, ok bool) {
	switch p {
	case PeriodMorning:
		return 0, 12, true
	case PeriodAfternoon:
		return 12, 18, true
	case PeriodEvening:
		return 18, 24, true
	default:
		return 0, 0, false
	}
}

// IsValid returns true for a known period
func (p Period) IsValid() bool {
	_, _, ok := p.HourRange()
	return ok
}

// PeriodForHour возвращает период, к которому относится час
func PeriodForHour(hour int) Period {
	for _, p := range Periods {
		from, to, _ := p.HourRange()
		if hour >= from && hour < to {
			return p
		}
	}
	return PeriodEvening
}

// HourRange возвращает полуинтервал часов [from, to) пресета
func (p SmartPreset) HourRange() (from, to int, ok bool) {
	switch p {
	case PresetMorning:
		return 6, 12, true
	case PresetAfternoon:
		return 12, 18, true
	case PresetEvening:
		return 18, 23, true
	case PresetAllDay:
		return 0, 24, true
	default:
		return 0, 0, false
	}
}

// SlotIDsInHours возвращает ID слотов, час начала которых попадает в [from, to)
func SlotIDsInHours(slots []TimeSlot, from, to int) []int64 {
	ids := make([]int64, 0)
	for i := range slots {
		h, ok := slots[i].Hour()
		if !ok {
			continue
		}
		if h >= from && h < to {
			ids = append(ids, slots[i].ID)
		}
	}
	return ids
}
