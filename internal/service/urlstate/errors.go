package urlstate

import "errors"

var (
	// ErrInvalidParam возвращается для параметра URL, который не удалось разобрать
	ErrInvalidParam = errors.New("urlstate: invalid query parameter")
)
