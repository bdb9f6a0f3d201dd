package get_book

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetBook(ctx context.Context, id int64) (*models.BookResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
