package calendarmirror

// MirrorEvent запись в зеркальном календаре
// BlockID служит ключом события на стороне зеркала: повторная отправка
// того же блока перезаписывает событие, а не создает дубль
type MirrorEvent struct {
	BlockID     int64  `json:"blockId"`
	Date        string `json:"date"`      // YYYY-MM-DD
	StartTime   string `json:"startTime"` // HH:MM
	EndTime     string `json:"endTime"`   // HH:MM
	Description string `json:"description"`
}
