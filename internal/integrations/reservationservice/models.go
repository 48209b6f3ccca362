package reservationservice

// CreateReservationRequest тело запроса на создание бронирования
type CreateReservationRequest struct {
	SubScenarioID    int64            `json:"subScenarioId"`
	TimeSlotIDs      []int64          `json:"timeSlotIds"`
	ReservationRange ReservationRange `json:"reservationRange"`
	Weekdays         []int            `json:"weekdays,omitempty"`
}

// ReservationRange даты бронирования
type ReservationRange struct {
	InitialDate string  `json:"initialDate"`
	FinalDate   *string `json:"finalDate,omitempty"`
}

// CreateReservationResponse ответ сервиса бронирований
type CreateReservationResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
}

// ErrorKind тип ошибки создания бронирования
type ErrorKind string

const (
	ErrorKindConflict   ErrorKind = "conflict"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindUnknown    ErrorKind = "unknown"
)
