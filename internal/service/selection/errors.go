package selection

import "errors"

var (
	// ErrSlotUnavailable возвращается при попытке выбрать слот, который сейчас не available
	ErrSlotUnavailable = errors.New("selection: slot is not available")

	// ErrUnknownPreset возвращается для неизвестного быстрого выбора
	ErrUnknownPreset = errors.New("selection: unknown smart preset")
)
