package submit_reservation

import "errors"

var (
	// ErrSubmissionInProgress возвращается, если предыдущая отправка еще не завершена
	ErrSubmissionInProgress = errors.New("submit_reservation: submission already in progress")

	// ErrNoPendingIntent возвращается при возобновлении без сохраненного намерения
	ErrNoPendingIntent = errors.New("submit_reservation: no pending submission")

	// ErrInvalidUser возвращается при возобновлении без пользователя
	ErrInvalidUser = errors.New("submit_reservation: user id must be positive")
)
