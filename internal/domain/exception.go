package domain

import (
	"time"

	"github.com/needleworks/INK-BookingService/pkg/types"
)

// DayException переопределение расписания на конкретную дату
// Либо день полностью закрыт, либо заданы особые часы вместо недельных
// На одну дату книги - не более одного исключения
type DayException struct {
	ID        int64
	BookID    int64
	Date      time.Time
	Closed    bool              // true - день полностью недоступен
	OpenTime  *types.TimeString // Особые часы (только когда Closed = false)
	CloseTime *types.TimeString

	CreatedAt time.Time
}

// HasCustomHours возвращает true, если исключение задаёт особые часы
func (e *DayException) HasCustomHours() bool {
	return !e.Closed && e.OpenTime != nil && e.CloseTime != nil
}
