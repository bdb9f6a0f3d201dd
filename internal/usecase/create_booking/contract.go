package create_booking

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
