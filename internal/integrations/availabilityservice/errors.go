package availabilityservice

import "errors"

var (
	// ErrSubScenarioNotFound возвращается, когда подсценарий не найден
	ErrSubScenarioNotFound = errors.New("availabilityservice client: sub-scenario not found")

	// ErrInvalidQuery возвращается, когда сервис отклонил параметры запроса
	ErrInvalidQuery = errors.New("availabilityservice client: invalid query")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("availabilityservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("availabilityservice client: invalid response")
)
