package availability

import "errors"

var (
	// ErrFetchFailed возвращается, когда запрос доступности завершился ошибкой
	// Ранее полученная карта слотов при этом сохраняется
	ErrFetchFailed = errors.New("availability: fetch failed")

	// ErrStaleResponse возвращается, когда ответ пришел после более нового запроса и был отброшен
	ErrStaleResponse = errors.New("availability: response superseded by a newer request")
)
