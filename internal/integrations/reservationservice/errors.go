package reservationservice

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict возвращается, когда слот уже занят другим пользователем
	ErrConflict = errors.New("reservationservice client: slot conflict")

	// ErrValidation возвращается, когда сервис отклонил данные бронирования
	ErrValidation = errors.New("reservationservice client: validation failed")

	// ErrRejected возвращается при прочих отказах сервиса
	ErrRejected = errors.New("reservationservice client: reservation rejected")

	// ErrUnauthorized возвращается, когда пользователь не аутентифицирован
	ErrUnauthorized = errors.New("reservationservice client: unauthorized")

	// ErrInternal возвращается при внутренних ошибках клиента (сеть, таймаут)
	ErrInternal = errors.New("reservationservice client: internal error")
)

// CreateError отказ сервиса с типом ошибки
// Unwrap возвращает соответствующую sentinel-ошибку, поэтому работает errors.Is
type CreateError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("reservationservice client: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *CreateError) Unwrap() error {
	switch e.Kind {
	case ErrorKindConflict:
		return ErrConflict
	case ErrorKindValidation:
		return ErrValidation
	default:
		return ErrRejected
	}
}

// KindOf возвращает тип ошибки; для ошибок транспорта и неизвестных ошибок - ErrorKindUnknown
func KindOf(err error) ErrorKind {
	var createErr *CreateError
	if errors.As(err, &createErr) {
		return createErr.Kind
	}
	return ErrorKindUnknown
}
