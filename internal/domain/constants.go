package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default configuration values
const (
	DefaultGracePeriod = 30 * time.Minute
	DefaultOpenHour    = 6
	DefaultCloseHour   = 23
)

// Weekday bounds (воскресенье = 0)
const (
	MinWeekday = 0
	MaxWeekday = 6
)
