package reserve_slot

import (
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// Request запрос на резервирование интервала
type Request struct {
	BookID    int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	// BookingID заполняется для блока под запись; nil означает
	// ручной блок мастера
	BookingID *int64

	// Description попадает в событие зеркального календаря
	Description string
}

// Response результат успешного резервирования
type Response struct {
	Block *domain.TimeBlock
}
