package claim_flash

import (
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// Request запрос на бронирование flash-дизайна
type Request struct {
	RequesterID int64
	PieceID     int64
	SizeID      int64
	BookID      int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
}

// Response результат успешного бронирования
type Response struct {
	Booking *domain.Booking
	Block   *domain.TimeBlock
}
