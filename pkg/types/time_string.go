package types

import (
	"errors"
	"fmt"
	"time"
)

const (
	layoutSeconds = "15:04:05"
	layoutMinutes = "15:04"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате HH:MM:SS (без даты и часового пояса)
type TimeString string

// NewTimeString создает TimeString из time.Time (берется только время суток)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layoutSeconds))
}

// NewTimeStringFromString парсит строку в формате HH:MM:SS или HH:MM
// Результат всегда нормализуется к HH:MM:SS
func NewTimeStringFromString(s string) (TimeString, error) {
	for _, layout := range []string{layoutSeconds, layoutMinutes} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeString(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

func (t TimeString) String() string {
	return string(t)
}

// Hour возвращает час (0-23)
func (t TimeString) Hour() (int, error) {
	s, err := t.seconds()
	if err != nil {
		return 0, err
	}
	return s / 3600, nil
}

// Duration возвращает смещение от начала суток
func (t TimeString) Duration() (time.Duration, error) {
	s, err := t.seconds()
	if err != nil {
		return 0, err
	}
	return time.Duration(s) * time.Second, nil
}

// On возвращает момент времени t в день date (в часовом поясе date)
func (t TimeString) On(date time.Time) (time.Time, error) {
	d, err := t.Duration()
	if err != nil {
		return time.Time{}, err
	}
	y, m, day := date.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, date.Location()).Add(d), nil
}

func (t TimeString) seconds() (int, error) {
	parsed, err := time.Parse(layoutSeconds, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second(), nil
}
