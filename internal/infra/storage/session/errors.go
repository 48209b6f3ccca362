package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session.repository: session not found")

	// ErrEmptyID возвращается при сохранении без идентификатора
	ErrEmptyID = errors.New("session.repository: empty session id")
)
