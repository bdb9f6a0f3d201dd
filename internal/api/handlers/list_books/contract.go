package list_books

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListBooks(ctx context.Context, activeOnly bool) (*models.BookListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
