package availabilityservice

// Query параметры запроса доступности слотов подсценария
type Query struct {
	SubScenarioID int64
	InitialDate   string  // YYYY-MM-DD
	FinalDate     *string // YYYY-MM-DD, только для диапазона
	Weekdays      []int   // 0 = воскресенье
}

// SlotDescriptor описание слота из сервиса доступности
type SlotDescriptor struct {
	ID                    int64  `json:"id"`
	StartTime             string `json:"startTime"` // "08:00:00"
	EndTime               string `json:"endTime"`
	IsAvailableInAllDates bool   `json:"isAvailableInAllDates"`
}

// AvailabilityResponse ответ сервиса доступности
type AvailabilityResponse struct {
	TimeSlots []SlotDescriptor `json:"timeSlots"`
}

// ErrorResponse модель ошибки от сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
