package get_booking

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id, actorID int64, role domain.Role) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
