package update_booking

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	UpdateContent(ctx context.Context, req *models.UpdateContentRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
