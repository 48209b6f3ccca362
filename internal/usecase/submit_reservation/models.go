package submit_reservation

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// Status состояние попытки отправки
type Status string

const (
	StatusIdle          Status = "idle"
	StatusValidating    Status = "validating"
	StatusRejected      Status = "rejected"
	StatusSubmitting    Status = "submitting"
	StatusSucceeded     Status = "succeeded"
	StatusConflictRetry Status = "conflict_retry"
	StatusFailed        Status = "failed"
	StatusAuthRequired  Status = "auth_required"
)

// Сообщения для пользователя
const (
	msgNoSlots         = "Выберите хотя бы один временной слот"
	msgNoDate          = "Выберите дату бронирования"
	msgSlotsDropped    = "Некоторые выбранные слоты больше недоступны и были убраны из выбора. Проверьте выбор и отправьте снова"
	msgAuthRequired    = "Войдите, чтобы завершить бронирование"
	msgSucceeded       = "Бронирование успешно создано"
	msgConflict        = "Один или несколько слотов уже заняты. Доступность обновлена, выберите слоты заново"
	msgFailed          = "Не удалось создать бронирование"
	msgIntentSlotsGone = "Выбранные слоты стали недоступны, пока вы входили в систему. Выберите слоты заново"
	msgIntentOutdated  = "Параметры бронирования изменились, пока вы входили в систему. Выберите слоты заново"
)

// Request запрос на отправку выбора
type Request struct {
	UserID int64 // 0 - пользователь не аутентифицирован
}

// Intent сохраненное намерение бронирования (ожидает аутентификации)
type Intent struct {
	SubScenarioID int64
	SlotIDs       []int64
	Config        domain.AvailabilityQueryConfig
}

// Result итог попытки отправки
type Result struct {
	Status         Status
	Message        string
	RemovedSlotIDs []int64 // слоты, убранные из выбора проверкой перед отправкой
	Err            error   // исходная ошибка сервиса (не показывается пользователю)
}
