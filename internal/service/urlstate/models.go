package urlstate

// Mode режим выбора дат в URL
type Mode string

const (
	ModeSingle Mode = "single"
	ModeRange  Mode = "range"
)

// Params параметры строки запроса
// Выбранные слоты в URL не попадают
type Params struct {
	Date     string `schema:"date,omitempty"`
	EndDate  string `schema:"endDate,omitempty"`
	Weekdays string `schema:"weekdays,omitempty"`
	Mode     Mode   `schema:"mode,omitempty"`
}
