package create_book

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateBook(ctx context.Context, req *models.CreateBookRequest) (*models.BookResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
