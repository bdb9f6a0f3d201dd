package domain

import (
	"time"

	"github.com/needleworks/INK-BookingService/pkg/types"
)

// BlockType тип занятого интервала
type BlockType string

const (
	// BlockTypeManual блок, выставленный мастером вручную (без заявки)
	BlockTypeManual BlockType = "manual"
	// BlockTypeAppointment блок записи, связан 1:1 с заявкой
	BlockTypeAppointment BlockType = "appointment"
)

// TimeBlock занятый интервал в книге записи
// Инвариант: для одной книги и даты занятые интервалы попарно не пересекаются,
// это обеспечивается сериализуемой транзакцией резервирования
type TimeBlock struct {
	ID        int64
	BookID    int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Type      BlockType
	BookingID *int64 // Заполнен только для Type = appointment

	CreatedAt time.Time
}

// Overlaps проверяет пересечение с интервалом [start, end)
// Полуоткрытое сравнение: блоки встык (конец одного = начало другого)
// не считаются пересекающимися
func (tb *TimeBlock) Overlaps(start, end types.TimeString) bool {
	return tb.StartTime.IsBefore(end) && tb.EndTime.IsAfter(start)
}
