package availability

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/availabilityservice"
)

// Snapshot заранее полученные данные доступности (например, отрендеренные сервером)
type Snapshot struct {
	Config      domain.AvailabilityQueryConfig
	Descriptors []availabilityservice.SlotDescriptor
}

// Options настройки движка
type Options struct {
	Grace     time.Duration // буфер для ближайших слотов на сегодня
	OpenHour  int           // синтетическая сетка до первого запроса
	CloseHour int
}

// State снимок состояния движка для отображения
type State struct {
	Slots     []domain.TimeSlot
	Config    *domain.AvailabilityQueryConfig // конфигурация, для которой получены слоты
	Err       error                           // ошибка последнего запроса (слоты при этом старые)
	IsLoading bool
}
