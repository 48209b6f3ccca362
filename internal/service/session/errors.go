package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session: not found")

	// ErrSubScenarioNotFound возвращается, когда сервис доступности не знает подсценарий
	ErrSubScenarioNotFound = errors.New("session: sub-scenario not found")

	// ErrInvalidSubScenario возвращается для некорректного ID подсценария
	ErrInvalidSubScenario = errors.New("session: sub-scenario id must be positive")

	// ErrInvalidSelectionOp возвращается для неизвестной или неполной операции выбора
	ErrInvalidSelectionOp = errors.New("session: invalid selection operation")

	// ErrNoDateSelected возвращается при обновлении доступности без даты начала
	ErrNoDateSelected = errors.New("session: start date is not selected")
)
